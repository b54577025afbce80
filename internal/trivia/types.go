package trivia

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gokatarajesh/trivia-api/internal/db/queries"
)

// QuestionsPerPage is the fixed page size of every paginated listing.
const QuestionsPerPage = 10

// Difficulty bounds accepted on creation.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Question is the client-facing shape of a stored question.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Categories maps category id to its label.
type Categories map[int64]string

// QuestionPage is one page of a listing plus the listing's total size.
type QuestionPage struct {
	Questions       []Question
	TotalQuestions  int
	Categories      Categories
	CurrentCategory *string
}

// CreateQuestionRequest is the POST /questions payload. Pointer fields
// distinguish "absent" from zero values.
type CreateQuestionRequest struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int64  `json:"category"`
	Difficulty *int64  `json:"difficulty"`
}

// SearchRequest is the POST /questions/search payload.
type SearchRequest struct {
	SearchTerm *string `json:"search_term"`
	// searchTerm is what the bundled frontend sends.
	SearchTermCamel *string `json:"searchTerm"`
}

// Term returns the first non-nil spelling of the search term.
func (r SearchRequest) Term() string {
	switch {
	case r.SearchTerm != nil:
		return *r.SearchTerm
	case r.SearchTermCamel != nil:
		return *r.SearchTermCamel
	default:
		return ""
	}
}

// QuizRequest is the POST /quizzes payload. Quiz state lives on the client:
// it sends back every id it has already been asked.
type QuizRequest struct {
	Category          *FlexibleID   `json:"category"`
	QuizCategory      *QuizCategory `json:"quiz_category"`
	PreviousQuestions []int64       `json:"previous_questions"`
}

// QuizCategory is the frontend's {id, type} selector; id 0 means all categories.
type QuizCategory struct {
	ID   FlexibleID `json:"id"`
	Type string     `json:"type"`
}

// CategoryFilter resolves the requested category; nil means every category.
func (r QuizRequest) CategoryFilter() *int64 {
	var id int64
	switch {
	case r.Category != nil:
		id = int64(*r.Category)
	case r.QuizCategory != nil:
		id = int64(r.QuizCategory.ID)
	default:
		return nil
	}
	if id == 0 {
		return nil
	}
	return &id
}

// FlexibleID decodes from a JSON number or a numeric string.
type FlexibleID int64

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*f = FlexibleID(n)
	return nil
}

func fromRow(row queries.Question) Question {
	return Question{
		ID:         row.ID,
		Question:   row.Question,
		Answer:     row.Answer,
		Category:   row.Category,
		Difficulty: int(row.Difficulty),
	}
}

func fromRows(rows []queries.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out
}
