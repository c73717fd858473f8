// Package htmltomarkdown renders cached page bodies as Markdown.
package htmltomarkdown

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dq"
)

// Ensure Converter implements dq.Converter at compile time.
var _ dq.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML page body into Markdown.
func (c *Converter) Convert(body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", dq.Errorf(dq.EINVALID, "empty HTML input")
	}

	body, err := normalizeCodeBlocks(body)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(body)
	if err != nil {
		return "", dq.WrapError(dq.EPARSE, err, "convert page")
	}

	return result, nil
}

// normalizeCodeBlocks rewrites <pre data-language="x"> blocks, as used by
// docset pages, into <pre><code class="language-x"> so the language hint
// survives conversion.
func normalizeCodeBlocks(body string) (string, error) {
	if !strings.Contains(body, "data-language") {
		return body, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", dq.WrapError(dq.EPARSE, err, "parse page")
	}

	doc.Find("pre[data-language]").Each(func(_ int, pre *goquery.Selection) {
		if pre.Find("code").Length() > 0 {
			return
		}
		lang, _ := pre.Attr("data-language")
		pre.SetHtml(`<code class="language-` + html.EscapeString(lang) + `">` + html.EscapeString(pre.Text()) + `</code>`)
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", dq.WrapError(dq.EPARSE, err, "render page")
	}
	return out, nil
}
