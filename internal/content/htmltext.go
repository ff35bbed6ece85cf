package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped subtrees render as nothing.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Title:    true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Aside: true,
	atom.Main: true, atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
}

// HTMLToText renders markup as plain text. Only <br> and literal </p> tags break lines; every
// other tag becomes a space. It reads the token stream, so a paragraph closed implicitly
// (a <div> inside a <p>) stays on one line.
func HTMLToText(raw string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidy(sb.String(), false)
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case skipped[a]:
				if tt == html.StartTagToken {
					skip++
				}
			case a == atom.Br:
				sb.WriteByte('\n')
			default:
				sb.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case skipped[a]:
				if skip > 0 {
					skip--
				}
			case a == atom.P || a == atom.Br:
				sb.WriteByte('\n')
			default:
				sb.WriteByte(' ')
			}
		}
	}
}

// BlockText renders the parsed tree n with a line break around every block element and
// each <li> on its own line prefixed by "* ".
func BlockText(n *html.Node) string {
	var sb strings.Builder
	writeBlocks(&sb, n)
	return tidy(sb.String(), true)
}

func writeBlocks(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipped[n.DataAtom] || n.DataAtom == atom.Head {
			return
		}
		switch {
		case n.DataAtom == atom.Br:
			sb.WriteByte('\n')
			return
		case n.DataAtom == atom.Li:
			sb.WriteString("\n* ")
		case blocks[n.DataAtom]:
			sb.WriteByte('\n')
		default:
			sb.WriteByte(' ')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeBlocks(sb, c)
	}

	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Li || blocks[n.DataAtom] {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
}

func tidy(s string, dropBullets bool) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || (dropBullets && line == "*") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
