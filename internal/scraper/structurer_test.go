package scraper

import (
	"strings"
	"testing"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(title, content string) string {
	return `<html><body><h1 id="firstHeading">` + title + `</h1>` +
		`<div id="mw-content-text">` + content + `</div></body></html>`
}

func structure(t *testing.T, markup string) *domain.StructuredContent {
	t.Helper()
	got, err := NewStructurer().Structure(strings.NewReader(markup))
	require.NoError(t, err)
	return got
}

func TestStructurer_IntroductionAndExcludedSections(t *testing.T) {
	markup := page("Ada Lovelace", `
		<p>Ada was a mathematician.<sup>[1]</sup></p>
		<h2>Early Life</h2>
		<p>Born in London.</p>
		<h2>References</h2>
		<ul><li>Ref one</li></ul>`)

	got := structure(t, markup)

	assert.Equal(t, "Ada Lovelace", got.Title)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Introduction", got.Sections[0].Heading)
	require.NotNil(t, got.Sections[0].BodyText)
	assert.Equal(t, "Ada was a mathematician.", *got.Sections[0].BodyText)
	assert.Equal(t, "Early Life", got.Sections[1].Heading)
	require.NotNil(t, got.Sections[1].BodyText)
	assert.Equal(t, "Born in London.", *got.Sections[1].BodyText)
}

func TestStructurer_SubsectionOnlySectionHasNoBody(t *testing.T) {
	markup := page("Topic", `
		<h2>Career</h2>
		<h3>Early work</h3>
		<p>First job.</p>
		<h3>Later work</h3>
		<p>Second job.</p>
		<h2>Empty</h2>`)

	got := structure(t, markup)

	require.Len(t, got.Sections, 2)
	career := got.Sections[0]
	assert.Nil(t, career.BodyText)
	require.Len(t, career.Subsections, 2)
	assert.Equal(t, domain.Subsection{Heading: "Early work", BodyText: "First job."}, career.Subsections[0])
	assert.Equal(t, domain.Subsection{Heading: "Later work", BodyText: "Second job."}, career.Subsections[1])

	empty := got.Sections[1]
	require.NotNil(t, empty.BodyText)
	assert.Equal(t, "", *empty.BodyText)
	assert.Empty(t, empty.Subsections)
}

func TestStructurer_ExclusionIgnoresCaseEditMarkerAndHyphens(t *testing.T) {
	markup := page("Topic", `
		<h2>History</h2><p>Old.</p>
		<h2>SEE ALSO [edit]</h2><p>Link list.</p>
		<h2>External-Links</h2><p>More links.</p>
		<h2>Further Reading<span class="mw-editsection">[edit]</span></h2><p>Books.</p>
		<h2>Legacy</h2>
		<h3>Notes</h3><p>Dropped subsection.</p>
		<h3>Influence</h3><p>Kept.</p>`)

	got := structure(t, markup)

	headings := make([]string, 0, len(got.Sections))
	for _, s := range got.Sections {
		headings = append(headings, s.Heading)
	}
	assert.Equal(t, []string{"History", "Legacy"}, headings)
	require.Len(t, got.Sections[1].Subsections, 1)
	assert.Equal(t, "Influence", got.Sections[1].Subsections[0].Heading)
}

func TestStructurer_DocumentOrderAndConcatenation(t *testing.T) {
	markup := page("Topic", `
		<h2>Works</h2>
		<p>Intro to works.</p>
		<ul>
			<li>First <b>book</b></li>
			<li>Second book
				<ul><li>Nested edition</li></ul>
			</li>
		</ul>
		<p>Closing remark.</p>`)

	got := structure(t, markup)

	require.Len(t, got.Sections, 1)
	require.NotNil(t, got.Sections[0].BodyText)
	assert.Equal(t,
		"Intro to works.\n• First book\n• Second book Nested edition Closing remark.",
		*got.Sections[0].BodyText)
}

func TestStructurer_HeadingWrappersAndNoise(t *testing.T) {
	markup := page("Topic", `
		<div class="mw-heading mw-heading2"><h2 id="Life">Life</h2><span class="mw-editsection">[edit]</span></div>
		<table><tr><td><p>Infobox text</p></td></tr></table>
		<style>.x{}</style>
		<p>Lived   a   long
		life.</p>`)

	got := structure(t, markup)

	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Life", got.Sections[0].Heading)
	require.NotNil(t, got.Sections[0].BodyText)
	assert.Equal(t, "Lived a long life.", *got.Sections[0].BodyText)
}

func TestStructurer_SubsectionBeforeAnySection(t *testing.T) {
	got := structure(t, page("Topic", `<h3>Orphan</h3><p>Text.</p>`))

	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Introduction", got.Sections[0].Heading)
	assert.Nil(t, got.Sections[0].BodyText)
	require.Len(t, got.Sections[0].Subsections, 1)
	assert.Equal(t, "Text.", got.Sections[0].Subsections[0].BodyText)
}

func TestStructurer_UntitledFallback(t *testing.T) {
	got := structure(t, `<html><body><div id="mw-content-text"><p>Body.</p></div></body></html>`)
	assert.Equal(t, "Untitled", got.Title)
}

func TestStructurer_MissingContent(t *testing.T) {
	_, err := NewStructurer().Structure(strings.NewReader(`<html><body><h1 id="firstHeading">X</h1><p>Nope</p></body></html>`))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeContentNotFound))
}

func TestStructurer_CustomExclusions(t *testing.T) {
	s := NewStructurerWithExclusions([]string{"Trivia"})
	got, err := s.Structure(strings.NewReader(page("T", `<h2>trivia</h2><p>x</p><h2>References</h2><p>y</p>`)))
	require.NoError(t, err)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "References", got.Sections[0].Heading)
}
