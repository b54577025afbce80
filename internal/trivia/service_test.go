package trivia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func ptr[T any](v T) *T { return &v }

func seedQuestions(db *memDB, n int, category int64) {
	for i := 0; i < n; i++ {
		db.add(fmt.Sprintf("Question %d", i+1), category)
	}
}

func TestListQuestionsPaginates(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 15, 1)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	first, err := svc.ListQuestions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Questions, 10)
	assert.Equal(t, 15, first.TotalQuestions)
	assert.Equal(t, Categories{1: "Science", 2: "Art", 3: "Geography"}, first.Categories)
	assert.Nil(t, first.CurrentCategory)
	assert.Equal(t, int64(1), first.Questions[0].ID)

	second, err := svc.ListQuestions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Questions, 5)
	assert.Equal(t, int64(11), second.Questions[0].ID)

	_, err = svc.ListQuestions(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageSizeIsCappedAtTen(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 25, 1)
	svc := NewService(memQuestions{db}, memCategories{db}, ServiceOptions{PerPage: 50}, zerolog.New(io.Discard))

	page, err := svc.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, page.Questions, QuestionsPerPage)

	smaller := NewService(memQuestions{db}, memCategories{db}, ServiceOptions{PerPage: 4}, zerolog.New(io.Discard))
	page, err = smaller.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, page.Questions, 4)
}

func TestListQuestionsEmptyTableIsNotFound(t *testing.T) {
	svc := newTestService(t, newMemDB(), nil)
	_, err := svc.ListQuestions(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCategories(t *testing.T) {
	db := newMemDB()
	svc := newTestService(t, db, nil)

	got, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Art", got[2])

	db.categories = nil
	_, err = svc.ListCategories(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

type recordingCache struct {
	stored  Categories
	gets    int
	sets    int
	failGet bool
}

func (c *recordingCache) Get(context.Context) (Categories, error) {
	c.gets++
	if c.failGet {
		return nil, errors.New("redis down")
	}
	return c.stored, nil
}

func (c *recordingCache) Set(_ context.Context, categories Categories) error {
	c.sets++
	c.stored = categories
	return nil
}

func TestCategoriesReadThroughCache(t *testing.T) {
	db := newMemDB()
	cache := &recordingCache{}
	svc := newTestService(t, db, cache)
	ctx := context.Background()

	_, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	db.err = errors.New("store must not be hit")
	got, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Science", got[1])
	assert.Equal(t, 2, cache.gets)
}

func TestCategoriesCacheFailureFallsBackToStore(t *testing.T) {
	cache := &recordingCache{failGet: true}
	svc := newTestService(t, newMemDB(), cache)

	got, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCreateQuestionValidation(t *testing.T) {
	valid := CreateQuestionRequest{
		Question:   ptr("What is the capital of France?"),
		Answer:     ptr("Paris"),
		Category:   ptr(int64(3)),
		Difficulty: ptr(int64(1)),
	}

	tests := []struct {
		name   string
		mutate func(r *CreateQuestionRequest)
		want   error
	}{
		{"missing question", func(r *CreateQuestionRequest) { r.Question = nil }, ErrBadRequest},
		{"blank answer", func(r *CreateQuestionRequest) { r.Answer = ptr("   ") }, ErrBadRequest},
		{"missing category", func(r *CreateQuestionRequest) { r.Category = nil }, ErrBadRequest},
		{"missing difficulty", func(r *CreateQuestionRequest) { r.Difficulty = nil }, ErrBadRequest},
		{"difficulty too high", func(r *CreateQuestionRequest) { r.Difficulty = ptr(int64(9)) }, ErrUnprocessable},
		{"negative difficulty", func(r *CreateQuestionRequest) { r.Difficulty = ptr(int64(-1)) }, ErrUnprocessable},
		{"unknown category", func(r *CreateQuestionRequest) { r.Category = ptr(int64(42)) }, ErrUnprocessable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t, newMemDB(), nil)
			req := valid
			tc.mutate(&req)
			_, err := svc.CreateQuestion(context.Background(), req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateQuestionStoresRow(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 2, 1)
	svc := newTestService(t, db, nil)

	q, err := svc.CreateQuestion(context.Background(), CreateQuestionRequest{
		Question:   ptr("  Who painted the Mona Lisa? "),
		Answer:     ptr("Leonardo"),
		Category:   ptr(int64(2)),
		Difficulty: ptr(int64(3)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.ID)
	assert.Equal(t, "Who painted the Mona Lisa?", q.Question)

	page, err := svc.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalQuestions)
}

func TestDeleteQuestionTwiceIsNotFound(t *testing.T) {
	db := newMemDB()
	q := db.add("Doomed", 1)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteQuestion(ctx, q.ID))

	_, err := svc.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteQuestion(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchQuestions(t *testing.T) {
	db := newMemDB()
	db.add("What movie earned Tom Hanks his third Oscar?", 5)
	db.add("What is the Title of Anne Rice's first novel?", 4)
	db.add("Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", 4)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	upper, err := svc.SearchQuestions(ctx, "TITLE", 1)
	require.NoError(t, err)
	lower, err := svc.SearchQuestions(ctx, "title", 1)
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
	assert.Equal(t, 2, upper.TotalQuestions)

	none, err := svc.SearchQuestions(ctx, "zebra", 1)
	require.NoError(t, err)
	assert.Empty(t, none.Questions)
	assert.NotNil(t, none.Questions)
	assert.Zero(t, none.TotalQuestions)

	_, err = svc.SearchQuestions(ctx, "  ", 1)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestSearchKeepsSurroundingSpaces(t *testing.T) {
	db := newMemDB()
	db.add("Panama", 3)
	db.add("Is a tomato a fruit?", 1)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	bare, err := svc.SearchQuestions(ctx, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, bare.TotalQuestions)

	spaced, err := svc.SearchQuestions(ctx, "a ", 1)
	require.NoError(t, err)
	require.Len(t, spaced.Questions, 1)
	assert.Equal(t, "Is a tomato a fruit?", spaced.Questions[0].Question)
}

func TestQuestionsByCategory(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 3, 1)
	seedQuestions(db, 12, 2)
	svc := newTestService(t, db, nil)
	ctx := context.Background()

	page, err := svc.QuestionsByCategory(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Questions, 2)
	assert.Equal(t, 12, page.TotalQuestions)
	require.NotNil(t, page.CurrentCategory)
	assert.Equal(t, "Art", *page.CurrentCategory)

	_, err = svc.QuestionsByCategory(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.QuestionsByCategory(ctx, 3, 1)
	assert.ErrorIs(t, err, ErrNotFound, "existing category without questions")

	_, err = svc.QuestionsByCategory(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrNotFound, "page beyond range")
}

func TestNextQuizQuestionCategoryExhausted(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 4, 1)
	seedQuestions(db, 4, 2)
	svc := newTestService(t, db, nil)

	q, err := svc.NextQuizQuestion(context.Background(), QuizRequest{
		Category:          ptr(FlexibleID(1)),
		PreviousQuestions: db.ids(1),
	})
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestNextQuizQuestionStaysInCategory(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 5, 1)
	seedQuestions(db, 5, 2)
	svc := newTestService(t, db, nil)

	for i := 0; i < 25; i++ {
		q, err := svc.NextQuizQuestion(context.Background(), QuizRequest{
			QuizCategory: &QuizCategory{ID: 2, Type: "Art"},
		})
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.Equal(t, int64(2), q.Category)
		assert.Equal(t, "answer", q.Answer)
	}
}

func TestNextQuizQuestionFullSessionNeverRepeats(t *testing.T) {
	db := newMemDB()
	seedQuestions(db, 6, 1)
	seedQuestions(db, 7, 3)
	svc := newTestService(t, db, nil)

	req := QuizRequest{}
	seen := map[int64]bool{}
	for {
		q, err := svc.NextQuizQuestion(context.Background(), req)
		require.NoError(t, err)
		if q == nil {
			break
		}
		require.False(t, seen[q.ID], "question %d repeated", q.ID)
		seen[q.ID] = true
		req.PreviousQuestions = append(req.PreviousQuestions, q.ID)
	}
	assert.Len(t, seen, 13)
}

func TestNextQuizQuestionStoreFailureIsInternal(t *testing.T) {
	db := newMemDB()
	db.err = errors.New("connection reset")
	svc := newTestService(t, db, nil)

	_, err := svc.NextQuizQuestion(context.Background(), QuizRequest{})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Empty(t, MessageOf(err))
}

func TestQuizRequestCategoryFilter(t *testing.T) {
	assert.Nil(t, QuizRequest{}.CategoryFilter())
	assert.Nil(t, QuizRequest{Category: ptr(FlexibleID(0))}.CategoryFilter())
	assert.Nil(t, QuizRequest{QuizCategory: &QuizCategory{ID: 0, Type: "click"}}.CategoryFilter())
	assert.Equal(t, int64(4), *QuizRequest{QuizCategory: &QuizCategory{ID: 4}}.CategoryFilter())
	assert.Equal(t, int64(2), *QuizRequest{Category: ptr(FlexibleID(2)), QuizCategory: &QuizCategory{ID: 4}}.CategoryFilter())
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", notFound("question 3 not found"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "question 3 not found", MessageOf(err))

	cause := errors.New("boom")
	ierr := internal("list questions", cause)
	assert.ErrorIs(t, ierr, cause)
	assert.Equal(t, "list questions: boom", ierr.Error())
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestServiceSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	db := newMemDB()
	seedQuestions(db, 2, 1)
	svc := newTestService(t, db, nil)

	_, err := svc.NextQuizQuestion(context.Background(), QuizRequest{})
	require.NoError(t, err)
	err = svc.DeleteQuestion(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)

	db.err = errors.New("connection reset")
	_, err = svc.ListQuestions(context.Background(), 1)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "trivia.next_quiz_question", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "trivia.delete_question", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code, "not found is not a span failure")
	assert.Equal(t, "trivia.list_questions", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}
