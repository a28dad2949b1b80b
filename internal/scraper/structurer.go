package scraper

import (
	"io"
	"strings"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	untitled       = "Untitled"
	editMarker     = "[edit]"
	listItemPrefix = "• "

	contentSelector = "div#mw-content-text"
	titleSelector   = "h1#firstHeading"
	walkSelector    = "h2, h3, p, ul"
	noiseSelector   = "sup, table, .mw-editsection, style, script"
)

// DefaultExcludedHeadings are boilerplate sections dropped from every article.
var DefaultExcludedHeadings = []string{
	"see also",
	"notes",
	"references",
	"external links",
	"further reading",
	"citations",
	"bibliography",
	"footnotes",
	"sources",
}

// Structurer turns Wikipedia-style markup into a section/subsection tree.
type Structurer struct {
	excluded map[string]struct{}
}

// NewStructurer returns a Structurer that drops DefaultExcludedHeadings.
func NewStructurer() *Structurer {
	return NewStructurerWithExclusions(DefaultExcludedHeadings)
}

// NewStructurerWithExclusions returns a Structurer that drops the given headings.
func NewStructurerWithExclusions(headings []string) *Structurer {
	excluded := make(map[string]struct{}, len(headings))
	for _, h := range headings {
		excluded[exclusionKey(h)] = struct{}{}
	}
	return &Structurer{excluded: excluded}
}

// Structure parses r and builds the StructuredContent. It fails with a
// ContentNotFound error when the main content region is missing.
func (s *Structurer) Structure(r io.Reader) (*domain.StructuredContent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, domain.NewContentNotFoundError("failed to parse article markup", err)
	}
	return s.StructureDocument(doc)
}

// StructureDocument is Structure over an already parsed document.
func (s *Structurer) StructureDocument(doc *goquery.Document) (*domain.StructuredContent, error) {
	title := plainText(doc.Find(titleSelector).First())
	if title == "" {
		title = untitled
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, domain.NewContentNotFoundError("main content not found", nil)
	}
	content.Find(noiseSelector).Remove()

	b := &treeBuilder{excluded: s.excluded}
	content.Find(walkSelector).Each(func(_ int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "h2":
			b.openSection(headingText(sel))
		case "h3":
			b.openSubsection(headingText(sel))
		case "p":
			if insideListItem(sel) {
				return
			}
			b.appendText(plainText(sel), " ")
		case "ul":
			if insideListItem(sel) {
				return
			}
			b.appendText(listText(sel), "\n")
		}
	})
	b.closeSection()

	logger.Get().Debug("Structured article",
		zap.String("title", title),
		zap.Int("sections", len(b.sections)),
	)
	return &domain.StructuredContent{Title: title, Sections: b.sections}, nil
}

type openSection struct {
	heading     string
	body        strings.Builder
	subsections []domain.Subsection
	excluded    bool
}

type openSubsection struct {
	heading  string
	body     strings.Builder
	excluded bool
}

// treeBuilder holds the state of one document walk.
type treeBuilder struct {
	excluded   map[string]struct{}
	sections   []domain.Section
	section    *openSection
	subsection *openSubsection
}

func (b *treeBuilder) isExcluded(heading string) bool {
	_, ok := b.excluded[exclusionKey(heading)]
	return ok
}

func (b *treeBuilder) openSection(heading string) {
	b.closeSection()
	b.section = &openSection{heading: heading, excluded: b.isExcluded(heading)}
}

func (b *treeBuilder) openSubsection(heading string) {
	b.ensureSection()
	b.closeSubsection()
	b.subsection = &openSubsection{heading: heading, excluded: b.isExcluded(heading)}
}

// ensureSection opens the synthesized introduction when content precedes any h2.
func (b *treeBuilder) ensureSection() {
	if b.section == nil {
		b.section = &openSection{heading: domain.IntroductionHeading}
	}
}

func (b *treeBuilder) appendText(text, sep string) {
	if text == "" {
		return
	}
	if b.subsection != nil {
		appendWithSep(&b.subsection.body, text, sep)
		return
	}
	b.ensureSection()
	appendWithSep(&b.section.body, text, sep)
}

func (b *treeBuilder) closeSubsection() {
	if b.subsection == nil {
		return
	}
	if !b.subsection.excluded && b.section != nil {
		b.section.subsections = append(b.section.subsections, domain.Subsection{
			Heading:  b.subsection.heading,
			BodyText: b.subsection.body.String(),
		})
	}
	b.subsection = nil
}

func (b *treeBuilder) closeSection() {
	b.closeSubsection()
	if b.section == nil {
		return
	}
	open := b.section
	b.section = nil
	if open.excluded {
		return
	}

	section := domain.Section{
		Heading:     open.heading,
		Subsections: open.subsections,
	}
	if section.Subsections == nil {
		section.Subsections = []domain.Subsection{}
	}
	body := open.body.String()
	if body != "" || len(open.subsections) == 0 {
		section.BodyText = &body
	}
	b.sections = append(b.sections, section)
}

func appendWithSep(sb *strings.Builder, text, sep string) {
	if sb.Len() > 0 {
		sb.WriteString(sep)
	}
	sb.WriteString(text)
}

func insideListItem(sel *goquery.Selection) bool {
	return sel.ParentsFiltered("li").Length() > 0
}

func listText(sel *goquery.Selection) string {
	items := make([]string, 0, sel.Children().Length())
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if text := plainText(li); text != "" {
			items = append(items, listItemPrefix+text)
		}
	})
	return strings.Join(items, "\n")
}

func headingText(sel *goquery.Selection) string {
	text := plainText(sel)
	return strings.TrimSpace(strings.TrimSuffix(text, editMarker))
}

// plainText joins the trimmed text nodes under sel with single spaces.
func plainText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

// exclusionKey lowercases a heading, drops a trailing edit marker and
// treats hyphens as spaces.
func exclusionKey(heading string) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = strings.TrimSuffix(h, editMarker)
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}
