package profile

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Markdown converts HTML descriptions to Markdown notes.
type Markdown struct {
	converter *md.Converter
}

// NewMarkdown creates a converter with GitHub flavoured output.
func NewMarkdown() *Markdown {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Markdown{converter: converter}
}

// Convert returns text as Markdown when it contains HTML markup and
// unchanged otherwise.
func (m *Markdown) Convert(text string) (string, error) {
	if !containsMarkup(text) {
		return text, nil
	}
	out, err := m.converter.ConvertString(text)
	if err != nil {
		return text, err
	}
	return cleanMarkdown(out), nil
}

// containsMarkup reports whether text, parsed as body content, holds at least
// one element.
func containsMarkup(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}
	nodes, err := html.ParseFragment(strings.NewReader(text), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return false
	}
	var found func(*html.Node) bool
	found = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found(c) {
				return true
			}
		}
		return false
	}
	for _, n := range nodes {
		if found(n) {
			return true
		}
	}
	return false
}

func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
