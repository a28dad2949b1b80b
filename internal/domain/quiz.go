package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// QuestionsPerQuiz is the fixed number of questions in every quiz.
	QuestionsPerQuiz = 8
	// OptionsPerQuestion is the fixed number of choices per question.
	OptionsPerQuestion = 4
	// MaxRelatedTopics bounds QuizOutput.RelatedTopics.
	MaxRelatedTopics = 3
)

// Difficulty is both the requested quiz mode and the per-question level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyMix counts questions per difficulty level.
type DifficultyMix struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

func (m DifficultyMix) String() string {
	return fmt.Sprintf("easy:%d medium:%d hard:%d", m.Easy, m.Medium, m.Hard)
}

var difficultyTable = map[Difficulty]DifficultyMix{
	DifficultyEasy:   {Easy: 6, Medium: 2, Hard: 0},
	DifficultyMedium: {Easy: 2, Medium: 5, Hard: 1},
	DifficultyHard:   {Easy: 1, Medium: 2, Hard: 5},
}

// ParseDifficulty accepts any casing of easy, medium or hard. Empty means medium.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DifficultyMedium, nil
	}
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of the three levels.
func (d Difficulty) Valid() bool {
	_, ok := difficultyTable[d]
	return ok
}

// Distribution returns the required question mix for a quiz requested in mode d.
func (d Difficulty) Distribution() DifficultyMix {
	return difficultyTable[d]
}

// KeyEntities lists named entities mentioned in the article.
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// Question is one multiple-choice item.
type Question struct {
	Question    string     `json:"question"`
	Options     []string   `json:"options"`
	Answer      string     `json:"answer"`
	Difficulty  Difficulty `json:"difficulty"`
	Explanation string     `json:"explanation"`
	Section     string     `json:"section,omitempty"`
}

// QuizOutput is the validated quiz stored on an article.
type QuizOutput struct {
	ID               string      `json:"id,omitempty"`
	URL              string      `json:"url,omitempty"`
	Title            string      `json:"title,omitempty"`
	Mode             Difficulty  `json:"mode,omitempty"`
	SelectedSections []string    `json:"selected_sections,omitempty"`
	Summary          string      `json:"summary"`
	KeyEntities      KeyEntities `json:"key_entities"`
	Sections         []string    `json:"sections"`
	Questions        []Question  `json:"questions"`
	RelatedTopics    []string    `json:"related_topics"`
	GeneratedAt      time.Time   `json:"generated_at,omitempty"`
}

// CountByDifficulty tallies the questions per level. Unknown levels are ignored.
func (q *QuizOutput) CountByDifficulty() DifficultyMix {
	var mix DifficultyMix
	for _, question := range q.Questions {
		switch question.Difficulty {
		case DifficultyEasy:
			mix.Easy++
		case DifficultyMedium:
			mix.Medium++
		case DifficultyHard:
			mix.Hard++
		}
	}
	return mix
}

// GeneratedWith reports whether q was produced for the same mode and section filter.
func (q *QuizOutput) GeneratedWith(mode Difficulty, sections []string) bool {
	if q.Mode != mode {
		return false
	}
	a := NormalizeSectionSelection(q.SelectedSections)
	b := NormalizeSectionSelection(sections)
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// QuizRequest carries the user-selected quiz options.
type QuizRequest struct {
	URL        string
	Difficulty Difficulty
	Sections   []string
	Regenerate bool
}

// SummaryResult is the output of the summary collaborator for one article.
type SummaryResult struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}
