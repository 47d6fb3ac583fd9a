// Package render converts commit messages to HTML for "ugit show --render"
// output.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// md is shared across calls; goldmark's default Markdown is safe for
// concurrent Convert calls once configured.
var md = goldmark.New()

// MessageHTML renders a commit message as HTML. Commit messages are treated
// as Markdown so that bodies with lists, code spans, or links render
// sensibly; plain-text messages come out as plain <p> paragraphs.
func MessageHTML(message string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(message), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Subject returns the first line of a commit message, matching the
// conventional "subject/body" split used by log summaries.
func Subject(message string) string {
	for i, r := range message {
		if r == '\n' {
			return message[:i]
		}
	}
	return message
}
