package subdivision

import (
	"fmt"
	"strings"
)

// Render returns the tree as an indented listing with box-drawing
// connectors, the form embedded in question prompts. The root is shown as
// "" (two quote characters) and every other node as its bit-string path,
// lower child first:
//
//	""
//	├── 0
//	│   ├── 00
//	│   └── 01
//	└── 1
func Render(t *Tree) string {
	var sb strings.Builder
	sb.WriteString(`""`)
	sb.WriteByte('\n')
	renderChildren(t, "", "", &sb)
	return sb.String()
}

func renderChildren(t *Tree, path, prefix string, sb *strings.Builder) {
	var kids []string
	for _, bit := range []string{"0", "1"} {
		if t.Exists(path + bit) {
			kids = append(kids, path+bit)
		}
	}
	for i, kid := range kids {
		connector, cont := "├── ", "│   "
		if i == len(kids)-1 {
			connector, cont = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(kid)
		sb.WriteByte('\n')
		renderChildren(t, kid, prefix+cont, sb)
	}
}

// ParseListing reads a listing in the Render format back into the set of
// node paths it shows, root included as "". It accepts only labels that
// are bit strings (or the quoted root) and rejects inconsistent
// indentation.
func ParseListing(s string) ([]string, error) {
	var paths []string
	for ln, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label := line
		depth := 0
		for {
			trimmed, ok := trimIndent(label)
			if !ok {
				break
			}
			label = trimmed
			depth++
		}
		if label == `""` {
			if depth != 0 {
				return nil, fmt.Errorf("%w: root label at depth %d on line %d", ErrInvalidPath, depth, ln+1)
			}
			paths = append(paths, "")
			continue
		}
		if err := checkPathSyntax(label); err != nil {
			return nil, fmt.Errorf("subdivision: line %d: %w", ln+1, err)
		}
		if len(label) != depth {
			return nil, fmt.Errorf("%w: node %q indented at depth %d on line %d", ErrInvalidPath, label, depth, ln+1)
		}
		paths = append(paths, label)
	}
	return paths, nil
}

// trimIndent strips one leading connector or continuation column.
func trimIndent(s string) (string, bool) {
	for _, pre := range []string{"├── ", "└── ", "│   ", "    "} {
		if strings.HasPrefix(s, pre) {
			return s[len(pre):], true
		}
	}
	return s, false
}
