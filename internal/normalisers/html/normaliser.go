package html

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles articles with HTML bodies.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise converts an article to its canonical form.
// The canonical text is the title heading, the body as markdown and the
// article URL line that the serving agent cites.
func (n *Normaliser) Normalise(article domain.Article) domain.NormalisedArticle {
	text := CanonicalText(article.Title, ToMarkdown(article.Body), article.URL)
	return domain.NormalisedArticle{
		ArticleID:   article.ID,
		Title:       article.Title,
		Slug:        Slug(article.Title),
		Text:        text,
		Fingerprint: Fingerprint(text),
		UpdatedAt:   article.UpdatedAt,
	}
}

// CanonicalText assembles the canonical document layout.
func CanonicalText(title, body, url string) string {
	if title == "" {
		title = "Untitled"
	}
	parts := []string{"# " + strings.TrimSpace(title)}
	if body != "" {
		parts = append(parts, body)
	}
	if url != "" {
		parts = append(parts, "Article URL: "+url)
	}
	return Clean(strings.Join(parts, "\n\n"))
}

// Pre-compiled regular expressions for whitespace cleanup.
var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	spacesAroundNL = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	multiSpaces    = regexp.MustCompile(` {2,}`)
	multiNewlines  = regexp.MustCompile(`\n{3,}`)
)

// hardSpace marks whitespace that cleanup must keep (indentation, <pre>).
const hardSpace = "\x00"

var preSpaces = strings.NewReplacer(" ", hardSpace, "\t", strings.Repeat(hardSpace, 4))

// Clean trims trailing whitespace from every line, collapses runs of three
// or more newlines to a single blank line and trims the result.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ToMarkdown renders an HTML fragment as lightweight markdown.
// Malformed markup is rendered best-effort; it never fails.
func ToMarkdown(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	r := &renderer{}
	out := tidy(r.render(doc))
	return Clean(strings.ReplaceAll(out, hardSpace, " "))
}

// tidy normalises soft whitespace produced while rendering.
func tidy(s string) string {
	s = spacesAroundNL.ReplaceAllString(s, "\n")
	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.Trim(s, " \n")
}

// skipped lists elements that never carry article content.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"svg":      true,
	"iframe":   true,
	"nav":      true,
	"footer":   true,
	"aside":    true,
	"form":     true,
	"button":   true,
	"template": true,
	"object":   true,
	"embed":    true,
	"canvas":   true,
	"select":   true,
	"input":    true,
}

// paragraphs lists block elements rendered as separate paragraphs.
var paragraphs = map[string]bool{
	"p":          true,
	"div":        true,
	"section":    true,
	"article":    true,
	"main":       true,
	"header":     true,
	"figure":     true,
	"figcaption": true,
	"details":    true,
	"summary":    true,
	"dl":         true,
	"dt":         true,
	"dd":         true,
	"address":    true,
}

type renderer struct {
	pre int
}

// render renders all children of n.
func (r *renderer) render(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(r.node(c))
	}
	return b.String()
}

func (r *renderer) node(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		if r.pre > 0 {
			return preSpaces.Replace(n.Data)
		}
		return whitespaceRun.ReplaceAllString(n.Data, " ")
	case html.DocumentNode:
		return r.render(n)
	case html.ElementNode:
		return r.element(n)
	default:
		return ""
	}
}

//nolint:gocyclo // One case per supported element
func (r *renderer) element(n *html.Node) string {
	if skipped[n.Data] || isBoilerplate(n) {
		return ""
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := singleLine(r.render(n))
		if text == "" {
			return ""
		}
		level := int(n.Data[1] - '0')
		return block(strings.Repeat("#", level) + " " + text)
	case "br":
		return "\n"
	case "hr":
		return block("---")
	case "ul":
		return r.list(n, false)
	case "ol":
		return r.list(n, true)
	case "li":
		return block("- " + tidy(r.render(n)))
	case "blockquote":
		inner := tidy(r.render(n))
		if inner == "" {
			return ""
		}
		return block(prefixLines(inner, "> "))
	case "pre":
		r.pre++
		inner := r.render(n)
		r.pre--
		inner = strings.Trim(inner, "\n")
		if strings.TrimSpace(strings.ReplaceAll(inner, hardSpace, " ")) == "" {
			return ""
		}
		return block("```\n" + inner + "\n```")
	case "table":
		return r.table(n)
	case "strong", "b":
		return wrap(r.render(n), "**")
	case "em", "i":
		return wrap(r.render(n), "*")
	case "code", "kbd":
		if r.pre > 0 {
			return r.render(n)
		}
		return wrap(r.render(n), "`")
	case "a":
		text := r.render(n)
		href := attr(n, "href")
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return text
		}
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return "[" + strings.TrimSpace(text) + "](" + href + ")"
	case "img":
		src := attr(n, "src")
		if src == "" {
			return ""
		}
		return "![" + attr(n, "alt") + "](" + src + ")"
	}

	if paragraphs[n.Data] {
		return block(r.render(n))
	}
	return r.render(n)
}

// list renders ul/ol children as markdown list items.
func (r *renderer) list(n *html.Node, ordered bool) string {
	var items []string
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "li" {
			// Nested lists placed directly in a list.
			if inner := tidy(r.node(c)); inner != "" {
				items = append(items, indent(inner, 2))
			}
			continue
		}
		i++
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", i)
		}
		inner := tidy(r.render(c))
		if inner == "" {
			continue
		}
		lines := strings.Split(inner, "\n")
		lines[0] = marker + lines[0]
		for j := 1; j < len(lines); j++ {
			if lines[j] != "" {
				lines[j] = strings.Repeat(hardSpace, len(marker)) + lines[j]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	if len(items) == 0 {
		return ""
	}
	return block(strings.Join(items, "\n"))
}

// table renders rows as pipe-delimited lines with a header separator.
func (r *renderer) table(n *html.Node) string {
	var rows []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.Data != "tr" {
				walk(c)
				continue
			}
			var cells []string
			for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
					cells = append(cells, singleLine(r.render(cell)))
				}
			}
			if len(cells) == 0 {
				continue
			}
			rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
			if len(rows) == 1 {
				sep := make([]string, len(cells))
				for i := range sep {
					sep[i] = "---"
				}
				rows = append(rows, "| "+strings.Join(sep, " | ")+" |")
			}
		}
	}
	walk(n)
	if len(rows) == 0 {
		return ""
	}
	return block(strings.Join(rows, "\n"))
}

// isBoilerplate reports elements marked as navigation or advertising.
func isBoilerplate(n *html.Node) bool {
	if attr(n, "role") == "navigation" {
		return true
	}
	marker := strings.ToLower(attr(n, "class") + " " + attr(n, "id"))
	return strings.Contains(marker, "advert") || strings.Contains(marker, "navigation")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func block(s string) string {
	return "\n\n" + s + "\n\n"
}

// wrap surrounds the trimmed text with a marker, keeping outer spacing.
func wrap(s, marker string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	lead := s[:strings.Index(s, t)]
	trail := s[strings.Index(s, t)+len(t):]
	return lead + marker + t + marker + trail
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, hardSpace, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimSpace(prefix)
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func indent(s string, width int) string {
	return prefixLines(s, strings.Repeat(hardSpace, width))
}
