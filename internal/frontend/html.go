package frontend

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlText extracts the text of an HTML fragment. Comments, tags, script
// and style content are dropped, `<br>` becomes a newline.
func htmlText(src []byte) string {
	z := html.NewTokenizer(bytes.NewReader(src))
	var (
		sb   strings.Builder
		skip int
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed fragment: keep what was read.
			return sb.String()
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Br:
				sb.WriteByte('\n')
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
			}
		}
	}
}

// isLineBreak reports whether an inline HTML fragment is a lone `<br>`.
func isLineBreak(fragment []byte) bool {
	z := html.NewTokenizer(bytes.NewReader(fragment))
	tt := z.Next()
	if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
		return false
	}
	name, _ := z.TagName()
	if atom.Lookup(name) != atom.Br {
		return false
	}
	return z.Next() == html.ErrorToken
}
