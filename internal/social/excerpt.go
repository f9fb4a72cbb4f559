package social

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxDescriptionLength is the rune limit for share descriptions, ellipsis excluded
const MaxDescriptionLength = 200

const ellipsis = "…"

// StripTags returns the text content of an HTML fragment with whitespace
// collapsed. Script and style bodies are dropped.
func StripTags(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tt := z.Token()
			switch {
			case isRawText(tt.Data) && tt.Type == html.StartTagToken:
				skip++
			case isRawText(tt.Data) && tt.Type == html.EndTagToken && skip > 0:
				skip--
			}
			if isBlock(tt.Data) {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(tag string) bool {
	return tag == "script" || tag == "style"
}

// isBlock reports tags whose boundaries separate words
func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "ul", "ol", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6",
		"tr", "td", "th", "section", "article", "figure", "figcaption", "hr", "pre":
		return true
	}
	return false
}

// Truncate shortens s to at most limit runes, cutting at the last word
// boundary when there is one, and appends an ellipsis when it cut.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + ellipsis
}

// Description builds the share description: the subheading when present,
// otherwise a tag-stripped excerpt of the content
func Description(subheading *string, content string) string {
	var text string
	if subheading != nil {
		text = strings.Join(strings.Fields(*subheading), " ")
	}
	if text == "" {
		text = StripTags(content)
	}
	return Truncate(text, MaxDescriptionLength)
}
