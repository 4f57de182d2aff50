package adapter

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// tableKeyPattern finds the 32-hex table key inside the checkpoints API path
// referenced by the tracking page's scripts.
var tableKeyPattern = regexp.MustCompile(`(?i)get_checkpoints_table/([a-f0-9]{32})/`)

// extractTableKey looks for the table key in the page's <script> elements
// first, then anywhere in the raw document.
func extractTableKey(page string) (string, bool) {
	if doc, err := html.Parse(strings.NewReader(page)); err == nil {
		var key string
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if key != "" {
				return
			}
			if n.Type == html.ElementNode && n.Data == "script" {
				if m := tableKeyPattern.FindStringSubmatch(scriptSource(n)); m != nil {
					key = m[1]
					return
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(doc)
		if key != "" {
			return key, true
		}
	}

	if m := tableKeyPattern.FindStringSubmatch(page); m != nil {
		return m[1], true
	}
	return "", false
}

// scriptSource returns the inline body and src attribute of a script node.
func scriptSource(n *html.Node) string {
	var b strings.Builder
	for _, a := range n.Attr {
		if a.Key == "src" {
			b.WriteString(a.Val)
			b.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
