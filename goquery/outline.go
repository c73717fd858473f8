package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dq"
	"golang.org/x/net/html/atom"
)

// Ensure Outliner implements dq.Outliner at compile time.
var _ dq.Outliner = (*Outliner)(nil)

// headingSelector lists the heading levels included in an outline.
const headingSelector = "h1, h2, h3"

var headingLevels = map[atom.Atom]int{atom.H1: 1, atom.H2: 2, atom.H3: 3}

// Outliner extracts the heading outline of a page body.
type Outliner struct{}

// NewOutliner creates a new Outliner.
func NewOutliner() *Outliner {
	return &Outliner{}
}

// Outline returns the h1 to h3 headings of html in document order.
// Headings without text are skipped. A heading's ID is its own id attribute,
// or that of an anchor it contains.
func (o *Outliner) Outline(html string) ([]dq.Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, dq.WrapError(dq.EPARSE, err, "parse page")
	}

	var headings []dq.Heading
	doc.Find(headingSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}

		id, _ := sel.Attr("id")
		if id == "" {
			id, _ = sel.Find("[id]").First().Attr("id")
		}

		headings = append(headings, dq.Heading{
			Level: headingLevels[sel.Nodes[0].DataAtom],
			Text:  text,
			ID:    id,
		})
	})
	return headings, nil
}
