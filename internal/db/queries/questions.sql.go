package queries

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var questionColumns = []string{"id", "question", "answer", "category", "difficulty"}

func (q *Queries) selectQuestions() sq.SelectBuilder {
	return q.sb.Select(questionColumns...).From("questions").OrderBy("id ASC")
}

// ListQuestions returns every question ordered by id.
func (q *Queries) ListQuestions(ctx context.Context) ([]Question, error) {
	return q.queryQuestions(ctx, q.selectQuestions())
}

// ListQuestionsByCategory returns the questions of one category ordered by id.
func (q *Queries) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error) {
	return q.queryQuestions(ctx, q.selectQuestions().Where(sq.Eq{"category": categoryID}))
}

// SearchQuestions matches term as a case-insensitive substring of the question text.
func (q *Queries) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	pattern := "%" + EscapeLike(term) + "%"
	return q.queryQuestions(ctx, q.selectQuestions().Where(sq.ILike{"question": pattern}))
}

// GetQuestion fetches a single question by id.
func (q *Queries) GetQuestion(ctx context.Context, id int64) (Question, error) {
	query, args, err := q.selectQuestions().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Question{}, fmt.Errorf("build get question: %w", err)
	}
	var out Question
	err = q.db.QueryRow(ctx, query, args...).Scan(&out.ID, &out.Question, &out.Answer, &out.Category, &out.Difficulty)
	if err != nil {
		return Question{}, normalize(err)
	}
	return out, nil
}

// InsertQuestion stores a question and returns it with its generated id.
func (q *Queries) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (Question, error) {
	query, args, err := q.sb.Insert("questions").
		Columns("question", "answer", "category", "difficulty").
		Values(arg.Question, arg.Answer, arg.Category, arg.Difficulty).
		Suffix("RETURNING " + strings.Join(questionColumns, ", ")).
		ToSql()
	if err != nil {
		return Question{}, fmt.Errorf("build insert question: %w", err)
	}
	var out Question
	err = q.db.QueryRow(ctx, query, args...).Scan(&out.ID, &out.Question, &out.Answer, &out.Category, &out.Difficulty)
	if err != nil {
		return Question{}, normalize(err)
	}
	return out, nil
}

// DeleteQuestion removes a question and reports how many rows went away.
func (q *Queries) DeleteQuestion(ctx context.Context, id int64) (int64, error) {
	query, args, err := q.sb.Delete("questions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete question: %w", err)
	}
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) queryQuestions(ctx context.Context, b sq.SelectBuilder) ([]Question, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question query: %w", err)
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Question, error) {
		var out Question
		err := row.Scan(&out.ID, &out.Question, &out.Answer, &out.Category, &out.Difficulty)
		return out, err
	})
}

// EscapeLike neutralizes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
