package repository

import (
	"context"

	"github.com/gokatarajesh/trivia-api/internal/db/queries"
)

type questionStore interface {
	ListQuestions(ctx context.Context) ([]queries.Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]queries.Question, error)
	SearchQuestions(ctx context.Context, term string) ([]queries.Question, error)
	GetQuestion(ctx context.Context, id int64) (queries.Question, error)
	InsertQuestion(ctx context.Context, arg queries.InsertQuestionParams) (queries.Question, error)
	DeleteQuestion(ctx context.Context, id int64) (int64, error)
}

// QuestionRepository wraps the question queries.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// List returns all questions ordered by id.
func (r *QuestionRepository) List(ctx context.Context) ([]queries.Question, error) {
	return r.store.ListQuestions(ctx)
}

// ListByCategory returns the questions filed under categoryID, ordered by id.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]queries.Question, error) {
	return r.store.ListQuestionsByCategory(ctx, categoryID)
}

// Search does a case-insensitive substring match on the question text.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]queries.Question, error) {
	return r.store.SearchQuestions(ctx, term)
}

// Get returns queries.ErrNoRows when id is unknown.
func (r *QuestionRepository) Get(ctx context.Context, id int64) (queries.Question, error) {
	return r.store.GetQuestion(ctx, id)
}

// Insert stores a new question with a store-generated id.
func (r *QuestionRepository) Insert(ctx context.Context, params queries.InsertQuestionParams) (queries.Question, error) {
	return r.store.InsertQuestion(ctx, params)
}

// Delete reports whether a row was removed.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
