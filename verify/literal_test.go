package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral_Values(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"42", 42},
		{"-7", -7},
		{"0.5", 0.5},
		{".5", 0.5},
		{"1e-3", 0.001},
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`'it\'s'`, "it's"},
		{"True", true},
		{"false", false},
		{"None", nil},
		{"null", nil},
		{"[1, 2, 3]", []any{1, 2, 3}},
		{"[1, 2, 3,]", []any{1, 2, 3}},
		{"[]", []any{}},
		{"(1, 2)", Tuple{1, 2}},
		{"(1,)", Tuple{1}},
		{"(1)", 1},
		{"[(0, 1), (2, 3)]", []any{Tuple{0, 1}, Tuple{2, 3}}},
		{`{"a": 1, "b": [2]}`, map[string]any{"a": 1, "b": []any{2}}},
		{"[[0, 1], [1, 0.5]]", []any{[]any{0, 1}, []any{1, 0.5}}},
	}
	for _, tc := range cases {
		got, err := ParseLiteral(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"[1, 2",
		"[1 2]",
		"0011",
		"[00, 01]",
		"hello",
		"[1], [2]",
		"{1: 2}",
		"'unterminated",
	} {
		_, err := ParseLiteral(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseLiteral_IntegersStayInts(t *testing.T) {
	got, err := ParseLiteral("[1, 2.0]")
	require.NoError(t, err)
	items := got.([]any)
	assert.IsType(t, int(0), items[0])
	assert.IsType(t, float64(0), items[1])
}
