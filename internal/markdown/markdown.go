package markdown

import (
	stdhtml "html"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type Options struct {
	// RootURL marks absolute links into the blog itself; they are rewritten to
	// site-relative paths.
	RootURL string
}

const lastGoodBreakRatio = 0.8

type plainTextRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order; block constructs go before inline ones.
var plainTextRules = []plainTextRule{
	{regexp.MustCompile("(?s)```.*?```"), " "},
	{regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`), " "},
	{regexp.MustCompile(`(?m)^\|.*\|.*$`), " "},
	{regexp.MustCompile(`!\[.*?\]\(.*?\)`), " "},
	{regexp.MustCompile(`(?m)^---+$`), " "},
	{regexp.MustCompile(`(?m)^\[\^[^\]]+\]: .*$`), " "},
	{regexp.MustCompile(`\[\^[^\]]+\]`), ""},
	{regexp.MustCompile(`\*\*\*(.*?)\*\*\*`), "$1"},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},
	{regexp.MustCompile(`(?m)^#{1,6}\s+(.*?)$`), "\n$1\n"},
	{regexp.MustCompile(`~~(.*?)~~`), "$1"},
	{regexp.MustCompile("`(.*?)`"), "$1"},
	{regexp.MustCompile(`\[(.*?)\]\(.*?\)`), "$1"},
	{regexp.MustCompile(`(?m)^\s*>\s*(.*?)$`), "$1"},
	{regexp.MustCompile(`(?m)^\s*\d+\.\s+`), "- "},
	{regexp.MustCompile(`<[^>]*>`), " "},
}

func ToHTML(input string, opts Options) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(input))
	rewriteLinks(doc, strings.TrimSuffix(strings.TrimSpace(opts.RootURL), "/"))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

// Excerpt reduces a markdown or HTML body to at most maxChars runes of plain
// text, cutting on a word boundary when one is close to the limit.
func Excerpt(input string, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	clean := PlainText(input)
	if utf8.RuneCountInString(clean) <= maxChars {
		return clean
	}

	return truncateRunes(clean, maxChars)
}

func PlainText(input string) string {
	text := input
	for _, rule := range plainTextRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}

	text = stdhtml.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

func truncateRunes(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := maxChars
	minBreak := int(float64(maxChars) * lastGoodBreakRatio)
	for idx := maxChars - 1; idx >= minBreak; idx-- {
		if unicode.IsSpace(runes[idx]) {
			cut = idx
			break
		}
	}

	truncated := strings.TrimSpace(string(runes[:cut]))
	if truncated == "" {
		truncated = strings.TrimSpace(string(runes[:maxChars]))
	}

	return truncated + "..."
}

func rewriteLinks(doc ast.Node, rootURL string) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		link, ok := node.(*ast.Link)
		if !ok {
			return ast.GoToNext
		}

		href, internal := siteRelative(string(link.Destination), rootURL)
		link.Destination = []byte(href)
		if !internal {
			link.AdditionalAttributes = externalLinkAttributes(link.AdditionalAttributes)
		}

		return ast.GoToNext
	})
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch typed := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(writer, typed)
		return ast.SkipChildren, true
	case *ast.Code:
		_, _ = io.WriteString(writer, `<code class="inline-code">`)
		_, _ = io.WriteString(writer, stdhtml.EscapeString(string(typed.Literal)))
		_, _ = io.WriteString(writer, `</code>`)
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	lexer := pickLexer(codeLanguage(block.Info), code)
	iterator, err := lexer.Tokenise(nil, code)
	if err == nil {
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err = formatter.Format(writer, styles.Fallback, iterator); err == nil {
			return
		}
	}

	_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
	_, _ = io.WriteString(writer, `</code></pre>`)
}

func pickLexer(language string, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}

	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}

	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}

func siteRelative(href string, rootURL string) (string, bool) {
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") {
		return href, true
	}
	if rootURL == "" || !strings.HasPrefix(href, rootURL) {
		return href, false
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href, true
	}

	out := parsed.Path
	if out == "" {
		out = "/"
	}
	if parsed.RawQuery != "" {
		out += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		out += "#" + parsed.Fragment
	}

	return out, true
}

func externalLinkAttributes(existing []string) []string {
	attrs := make([]string, 0, len(existing)+2)
	for _, attr := range existing {
		normalized := strings.ToLower(strings.TrimSpace(attr))
		if strings.HasPrefix(normalized, "target=") || strings.HasPrefix(normalized, "rel=") {
			continue
		}
		attrs = append(attrs, attr)
	}

	return append(attrs, `target="_blank"`, `rel="noopener noreferrer"`)
}
