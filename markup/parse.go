package markup

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// elements which never have content or end tag
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// elements whose end tag may be omitted when one of the listed elements starts
// right inside them, the way Angular template parser treats them
var impliedEnd = map[string][]string{
	"p": {"address", "article", "aside", "blockquote", "div", "dl", "fieldset",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup",
		"hr", "main", "nav", "ol", "p", "pre", "section", "table", "ul"},
	"thead":    {"tbody", "tfoot"},
	"tbody":    {"tbody", "tfoot"},
	"tfoot":    {"tbody"},
	"tr":       {"tr"},
	"td":       {"td", "th"},
	"th":       {"td", "th"},
	"li":       {"li"},
	"dt":       {"dt", "dd"},
	"dd":       {"dt", "dd"},
	"rb":       {"rb", "rt", "rtc", "rp"},
	"rt":       {"rb", "rt", "rtc", "rp"},
	"rtc":      {"rb", "rtc", "rp"},
	"rp":       {"rb", "rt", "rtc", "rp"},
	"optgroup": {"optgroup"},
	"option":   {"option", "optgroup"},
}

// closedByChild reports whether start of child implicitly ends parent. Only
// the innermost open element is checked.
func closedByChild(parent, child string) bool {
	return slices.Contains(impliedEnd[strings.ToLower(parent)], strings.ToLower(child))
}

// endTagName extracts name from raw end tag keeping its case.
func endTagName(raw string) string {
	s := strings.TrimPrefix(raw, "</")
	i := 0
	for i < len(s) && !isSpace(s[i]) && s[i] != '/' && s[i] != '>' {
		i++
	}
	return s[:i]
}

// Parse builds node tree from template text. The tree is not corrected the way
// browsers do it: unmatched end tags are kept as text and unclosed elements are
// closed at the end of their parent. Elements with optional end tag (p, li,
// option and alike) are closed when a sibling that cannot nest in them starts.
func Parse(src string) (*Node, error) {
	root := &Node{Type: DocumentNode}
	open := []*Node{root}

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		cur := open[len(open)-1]

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to tokenize template: %w", err)
			}
			return root, nil

		case html.TextToken:
			cur.appendChild(&Node{Type: TextNode, Data: string(z.Raw())})

		case html.CommentToken:
			cur.appendChild(&Node{Type: CommentNode, Data: string(z.Raw())})

		case html.DoctypeToken:
			cur.appendChild(&Node{Type: DoctypeNode, Data: string(z.Raw())})

		case html.StartTagToken, html.SelfClosingTagToken:
			n := parseStartTag(string(z.Raw()))
			if len(open) > 1 && closedByChild(cur.Tag, n.Tag) {
				// end tag is implied, element stays without one
				open = open[:len(open)-1]
				cur = open[len(open)-1]
			}
			cur.appendChild(n)
			if tt == html.StartTagToken && !voidElements[strings.ToLower(n.Tag)] {
				open = append(open, n)
			}

		case html.EndTagToken:
			// TagName lower-cases the name inside tokenizer buffer, raw text
			// must be taken first
			raw := string(z.Raw())
			name := endTagName(raw)
			closed := false
			for i := len(open) - 1; i > 0; i-- {
				if strings.EqualFold(open[i].Tag, name) {
					open[i].end = raw
					open = open[:i]
					closed = true
					break
				}
			}
			if !closed {
				// stray end tag, keep it verbatim
				cur.appendChild(&Node{Type: TextNode, Data: raw})
			}
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// parseStartTag splits raw start tag into name and attributes. Whatever is not
// recognized as attribute stays in leading text of the next attribute or in the
// tail, so that re-rendering does not lose anything.
func parseStartTag(raw string) *Node {
	n := &Node{Type: ElementNode, start: raw}

	s := strings.TrimSuffix(raw[1:], ">")
	closing := func(i int) bool {
		return i >= len(s) || (s[i] == '/' && i+1 >= len(s))
	}

	i := 0
	for i < len(s) && !isSpace(s[i]) && s[i] != '/' {
		i++
	}
	n.Tag = s[:i]

	for {
		j := i
		for j < len(s) && (isSpace(s[j]) || (s[j] == '/' && !closing(j))) {
			j++
		}
		if closing(j) {
			n.tail = s[i:]
			return n
		}

		a := Attribute{lead: s[i:j]}

		k := j
		if s[k] == '=' {
			k++
		}
		for k < len(s) && !isSpace(s[k]) && s[k] != '=' && !closing(k) {
			k++
		}
		a.Key = s[j:k]
		end := k

		p := k
		for p < len(s) && isSpace(s[p]) {
			p++
		}
		if p < len(s) && s[p] == '=' {
			p++
			for p < len(s) && isSpace(s[p]) {
				p++
			}
			a.HasValue = true
			switch {
			case p < len(s) && (s[p] == '"' || s[p] == '\''):
				a.Quote = s[p]
				if q := strings.IndexByte(s[p+1:], s[p]); q >= 0 {
					a.Val = s[p+1 : p+1+q]
					end = p + q + 2
				} else {
					a.Val = s[p+1:]
					end = len(s)
				}
			default:
				e := p
				for e < len(s) && !isSpace(s[e]) && !closing(e) {
					e++
				}
				a.Val = s[p:e]
				end = e
			}
		}
		a.raw = s[j:end]
		n.Attrs = append(n.Attrs, a)
		i = end
	}
}
