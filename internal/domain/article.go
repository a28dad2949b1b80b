package domain

import (
	"strings"
	"time"
)

// IntroductionHeading names the section synthesized for text that precedes the first heading.
const IntroductionHeading = "Introduction"

// Subsection is a second-level heading block.
type Subsection struct {
	Heading  string `json:"heading"`
	BodyText string `json:"body_text"`
}

// Section is a top-level heading block. BodyText is nil when all of the
// section's text lives in its subsections, and "" when the section is empty.
type Section struct {
	Heading     string       `json:"heading"`
	BodyText    *string      `json:"body_text,omitempty"`
	Subsections []Subsection `json:"subsections"`
}

// Text returns the section body followed by every subsection body.
func (s Section) Text() string {
	parts := make([]string, 0, len(s.Subsections)+1)
	if s.BodyText != nil && *s.BodyText != "" {
		parts = append(parts, *s.BodyText)
	}
	for _, sub := range s.Subsections {
		if sub.BodyText != "" {
			parts = append(parts, sub.BodyText)
		}
	}
	return strings.Join(parts, " ")
}

// StructuredContent is the Document Structurer output for one article.
type StructuredContent struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Headings lists section headings in document order.
func (c *StructuredContent) Headings() []string {
	headings := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		headings = append(headings, s.Heading)
	}
	return headings
}

// FilterSections keeps the sections whose heading matches one of selected,
// compared case-insensitively after trimming. An empty selection keeps all
// sections; a selection that matches nothing yields an empty slice.
func (c *StructuredContent) FilterSections(selected []string) []Section {
	wanted := NormalizeSectionSelection(selected)
	if len(wanted) == 0 {
		return c.Sections
	}
	set := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		set[w] = struct{}{}
	}
	filtered := make([]Section, 0, len(wanted))
	for _, s := range c.Sections {
		if _, ok := set[normalizeHeadingKey(s.Heading)]; ok {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// JoinSectionText concatenates section texts, one section per line.
func JoinSectionText(sections []Section) string {
	lines := make([]string, 0, len(sections))
	for _, s := range sections {
		if text := s.Text(); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// NormalizeSectionSelection lowercases, trims and de-duplicates a section filter.
func NormalizeSectionSelection(selected []string) []string {
	seen := make(map[string]struct{}, len(selected))
	out := make([]string, 0, len(selected))
	for _, s := range selected {
		key := normalizeHeadingKey(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func normalizeHeadingKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Article is the persisted record for one URL.
type Article struct {
	ID        string
	URL       string
	Title     string
	Content   StructuredContent
	Quiz      *QuizOutput // nil until a quiz has been generated
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasQuiz reports whether a generated quiz has been stored.
func (a *Article) HasQuiz() bool {
	return a.Quiz != nil
}

// HistoryItem is the list view of an Article.
type HistoryItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizRecord is a stored quiz looked up by article ID.
type QuizRecord struct {
	ID    string
	Title string
	Quiz  *QuizOutput
}
