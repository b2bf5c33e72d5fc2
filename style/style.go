// Package style maps semantic output categories to the color tags understood
// by the symfony-cli terminal formatter. Writers that do not interpret tags
// (buffers in tests, plain files) receive them verbatim.
//
// Text passed to the helpers is escaped, so file names and metadata values
// that happen to look like tags are printed as they are.
package style

import (
	"fmt"

	"github.com/symfony-cli/terminal"
)

type Category int

const (
	CategoryPlain Category = iota
	CategoryAttention
	CategoryHighlight
	CategorySuccess
	CategoryFailure
)

var colors = map[Category]string{
	CategoryAttention: "magenta",
	CategoryHighlight: "yellow",
	CategorySuccess:   "green",
	CategoryFailure:   "red",
}

// Escape protects tag-like sequences in text from the terminal formatter.
func Escape(text string) string {
	if text == "" {
		return text
	}
	return string(terminal.Escape([]byte(text)))
}

// Format escapes text and wraps it in the tag for category c.
func Format(c Category, text string) string {
	text = Escape(text)
	color, ok := colors[c]
	if !ok {
		return text
	}
	return fmt.Sprintf("<fg=%s>%s</>", color, text)
}

func Plain(text string) string { return Format(CategoryPlain, text) }

func Attention(text string) string { return Format(CategoryAttention, text) }

func Highlight(text string) string { return Format(CategoryHighlight, text) }

func Success(text string) string { return Format(CategorySuccess, text) }

func Failure(text string) string { return Format(CategoryFailure, text) }
