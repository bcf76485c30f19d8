// Package evaluation scores stored model completions against a dataset:
// literal answers are extracted from chain-of-thought heavy outputs and
// handed to the task verifiers for grading.
package evaluation

import (
	"regexp"
	"strings"

	"vgbench/verify"
)

// Parser extracts a Python literal from a verbose completion. Strategies, in
// order: the last fenced code block, a backward scan for the last balanced
// bracket structure, then the whole text. Task-specific validation stays
// with the verifiers.
type Parser struct{}

var codeFenceRE = regexp.MustCompile("(?s)```(?:python)?\\s*(.*?)```")

// ParseAnswer returns the extracted literal text, or false when no strategy
// yields a parseable literal.
func (Parser) ParseAnswer(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	if fenced, ok := lastCodeFence(text); ok && isLiteral(fenced) {
		return fenced, true
	}
	if scanned, ok := backscanLiteral(text); ok && isLiteral(scanned) {
		return scanned, true
	}
	if stripped := strings.TrimSpace(text); isLiteral(stripped) {
		return stripped, true
	}
	return "", false
}

func lastCodeFence(text string) (string, bool) {
	matches := codeFenceRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	fenced := strings.TrimSpace(matches[len(matches)-1][1])
	return fenced, fenced != ""
}

// backscanLiteral finds the last balanced [...] or {...} in the text,
// scanning backwards from the final closing bracket.
func backscanLiteral(text string) (string, bool) {
	last := -1
	var closing byte
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == ']' || text[i] == '}' {
			last = i
			closing = text[i]
			break
		}
	}
	if last == -1 {
		return "", false
	}

	opening := byte('[')
	if closing == '}' {
		opening = '{'
	}
	depth := 1
	for i := last - 1; i >= 0; i-- {
		switch text[i] {
		case closing:
			depth++
		case opening:
			depth--
			if depth == 0 {
				return text[i : last+1], true
			}
		}
	}
	return "", false
}

func isLiteral(text string) bool {
	_, err := verify.ParseLiteral(text)
	return err == nil
}
