package puzzle

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	bold  = "\x1b[1m"
	reset = "\x1b[0m"
)

// Text renders an HTML element as plain text for the terminal. Whitespace is collapsed the way
// a browser would, except in <pre> blocks, and block elements are separated by blank lines.
// If colour is true, emphasised text is shown in bold.
func Text(n *html.Node, colour bool) string {
	r := renderer{colour: colour}
	r.render(n)
	return strings.TrimSpace(r.buf.String())
}

type renderer struct {
	buf    strings.Builder
	colour bool
	pre    int
	// space is set when whitespace has been seen that hasn't been written yet.
	space bool
}

func (r *renderer) render(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if r.pre > 0 {
			r.buf.WriteString(n.Data)
		} else {
			r.text(n.Data)
		}
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Pre:
			r.block()
			r.pre++
			defer func() {
				r.pre--
				r.block()
			}()
		case atom.P, atom.H1, atom.H2, atom.H3, atom.Article, atom.Div, atom.Ul, atom.Ol:
			r.block()
			defer r.block()
		case atom.Li:
			r.newline()
			r.buf.WriteString("  - ")
			defer r.newline()
		case atom.Br:
			r.newline()
		case atom.Em:
			if r.colour {
				r.flushSpace()
				r.buf.WriteString(bold)
				defer r.buf.WriteString(reset)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.render(c)
	}
}

func (r *renderer) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		r.space = r.space || s != ""
		return
	}
	if isSpace(s[0]) {
		r.space = true
	}
	for i, word := range words {
		if i > 0 {
			r.buf.WriteByte(' ')
		} else {
			r.flushSpace()
		}
		r.buf.WriteString(word)
	}
	r.space = isSpace(s[len(s)-1])
}

// flushSpace writes any pending whitespace, unless we're at the start of a line.
func (r *renderer) flushSpace() {
	if r.space && !r.atLineStart() {
		r.buf.WriteByte(' ')
	}
	r.space = false
}

func (r *renderer) atLineStart() bool {
	s := r.buf.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func (r *renderer) newline() {
	if !r.atLineStart() {
		r.buf.WriteByte('\n')
	}
	r.space = false
}

// block ensures there's a blank line before whatever comes next.
func (r *renderer) block() {
	r.space = false
	s := r.buf.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	} else if strings.HasSuffix(s, "\n") {
		r.buf.WriteByte('\n')
		return
	}
	r.buf.WriteString("\n\n")
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
