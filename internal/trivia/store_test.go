package trivia

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/db/queries"
)

// memDB backs both store interfaces in memory.
type memDB struct {
	mu         sync.Mutex
	nextID     int64
	questions  []queries.Question
	categories []queries.Category
	err        error
}

func newMemDB() *memDB {
	return &memDB{
		nextID: 1,
		categories: []queries.Category{
			{ID: 1, Type: "Science"},
			{ID: 2, Type: "Art"},
			{ID: 3, Type: "Geography"},
		},
	}
}

func (db *memDB) add(question string, category int64) queries.Question {
	db.mu.Lock()
	defer db.mu.Unlock()
	q := queries.Question{ID: db.nextID, Question: question, Answer: "answer", Category: category, Difficulty: 2}
	db.nextID++
	db.questions = append(db.questions, q)
	return q
}

func (db *memDB) ids(category int64) []int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []int64
	for _, q := range db.questions {
		if category == 0 || q.Category == category {
			out = append(out, q.ID)
		}
	}
	return out
}

type memQuestions struct{ db *memDB }

func (m memQuestions) filter(keep func(queries.Question) bool) ([]queries.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	out := []queries.Question{}
	for _, q := range m.db.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m memQuestions) List(context.Context) ([]queries.Question, error) {
	return m.filter(func(queries.Question) bool { return true })
}

func (m memQuestions) ListByCategory(_ context.Context, categoryID int64) ([]queries.Question, error) {
	return m.filter(func(q queries.Question) bool { return q.Category == categoryID })
}

func (m memQuestions) Search(_ context.Context, term string) ([]queries.Question, error) {
	term = strings.ToLower(term)
	return m.filter(func(q queries.Question) bool { return strings.Contains(strings.ToLower(q.Question), term) })
}

func (m memQuestions) Get(_ context.Context, id int64) (queries.Question, error) {
	rows, err := m.filter(func(q queries.Question) bool { return q.ID == id })
	if err != nil {
		return queries.Question{}, err
	}
	if len(rows) == 0 {
		return queries.Question{}, queries.ErrNoRows
	}
	return rows[0], nil
}

func (m memQuestions) Insert(_ context.Context, p queries.InsertQuestionParams) (queries.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return queries.Question{}, m.db.err
	}
	q := queries.Question{ID: m.db.nextID, Question: p.Question, Answer: p.Answer, Category: p.Category, Difficulty: p.Difficulty}
	m.db.nextID++
	m.db.questions = append(m.db.questions, q)
	return q, nil
}

func (m memQuestions) Delete(_ context.Context, id int64) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return false, m.db.err
	}
	for i, q := range m.db.questions {
		if q.ID == id {
			m.db.questions = append(m.db.questions[:i], m.db.questions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memCategories struct{ db *memDB }

func (m memCategories) List(context.Context) ([]queries.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	return append([]queries.Category(nil), m.db.categories...), nil
}

func (m memCategories) Get(_ context.Context, id int64) (queries.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return queries.Category{}, m.db.err
	}
	for _, c := range m.db.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return queries.Category{}, queries.ErrNoRows
}

func newTestService(t *testing.T, db *memDB, cache CategoryCache) *Service {
	t.Helper()
	return NewService(memQuestions{db}, memCategories{db}, ServiceOptions{
		Cache:    cache,
		Selector: NewSelectorWithSource(rand.NewPCG(1, 2)),
	}, zerolog.New(io.Discard))
}
