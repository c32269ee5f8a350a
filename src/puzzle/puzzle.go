// Package puzzle extracts the parts of Advent of Code pages that we show in the terminal:
// puzzle descriptions and the feedback given for submitted answers.
package puzzle

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/peterebden/go-deferred-regex"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Links that only make sense in a browser, e.g. [Return to Day 1].
var bracketedLinkRegex = deferredregex.DeferredRegex{Re: `^\s*\[.+\]\s*$`}

// Boilerplate sentences that follow an answer. These match against the rendered HTML, so
// the apostrophe in "you're" may well be an entity.
var (
	stuckRegex   = deferredregex.DeferredRegex{Re: `(?s)If\s+you.{1,8}re\s+stuck.+?subreddit.+?\.\s*`}
	victoryRegex = deferredregex.DeferredRegex{Re: `(?s)You\s+can.+?this\s+victory.+?\.\s*`}
)

const correctAnswer = "That's the right answer"

// Descriptions returns the description of each part of a puzzle that's been unlocked so far,
// given the puzzle's page.
func Descriptions(r io.Reader) ([]*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse puzzle page: %w", err)
	}
	parts := findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Article && hasClass(n, "day-desc")
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("no puzzle description found on page")
	}
	return parts, nil
}

// Part returns the description of the given part (1-based) from the result of Descriptions.
func Part(descriptions []*html.Node, part int) (*html.Node, error) {
	if part < 1 || part > len(descriptions) {
		return nil, fmt.Errorf("cannot find part %d on page", part)
	}
	return descriptions[part-1], nil
}

// Feedback is what the server said about a submitted answer.
type Feedback struct {
	// Correct is true if the answer was right.
	Correct bool
	// Done is true once the final part of the puzzle has been solved.
	Done bool
	// Message is the first sentence of the response, e.g. "That's not the right answer".
	Message string
	main    *html.Node
}

// Text renders the full response for the terminal.
func (f *Feedback) Text(colour bool) string {
	return Text(f.main, colour)
}

// ParseFeedback interprets the page returned after submitting an answer for the given part.
func ParseFeedback(r io.Reader, part int) (*Feedback, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse answer response: %w", err)
	}
	main := findFirst(doc, atom.Main)
	if main == nil {
		return nil, fmt.Errorf("unexpected answer response, no main element found")
	}
	for _, a := range findAll(main, func(n *html.Node) bool { return n.DataAtom == atom.A }) {
		if bracketedLinkRegex.MatchString(Text(a, false)) {
			a.Parent.RemoveChild(a)
		}
	}
	var buf bytes.Buffer
	for c := main.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, err
		}
	}
	cleaned := stuckRegex.ReplaceAllString(buf.String(), "")
	cleaned = victoryRegex.ReplaceAllString(cleaned, "")
	nodes, err := html.ParseFragment(strings.NewReader(cleaned), &html.Node{Type: html.ElementNode, Data: "main", DataAtom: atom.Main})
	if err != nil {
		return nil, err
	}
	main = &html.Node{Type: html.ElementNode, Data: "main", DataAtom: atom.Main}
	for _, n := range nodes {
		main.AppendChild(n)
	}
	text := Text(main, false)
	f := &Feedback{
		Correct: strings.Contains(text, correctAnswer),
		Message: text,
		main:    main,
	}
	if idx := strings.IndexByte(text, '.'); idx != -1 {
		f.Message = text[:idx]
	}
	f.Done = f.Correct && part == 2
	return f, nil
}

func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var ret []*html.Node
	if n.Type == html.ElementNode && pred(n) {
		ret = append(ret, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		ret = append(ret, findAll(c, pred)...)
	}
	return ret
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}
