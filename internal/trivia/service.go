package trivia

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gokatarajesh/trivia-api/internal/db/queries"
)

// QuestionStore is satisfied by *repository.QuestionRepository.
type QuestionStore interface {
	List(ctx context.Context) ([]queries.Question, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]queries.Question, error)
	Search(ctx context.Context, term string) ([]queries.Question, error)
	Get(ctx context.Context, id int64) (queries.Question, error)
	Insert(ctx context.Context, params queries.InsertQuestionParams) (queries.Question, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CategoryStore is satisfied by *repository.CategoryRepository.
type CategoryStore interface {
	List(ctx context.Context) ([]queries.Category, error)
	Get(ctx context.Context, id int64) (queries.Category, error)
}

// Service implements the trivia operations on top of the stores. It keeps no
// per-request state; listings are fetched in full and paginated in memory.
type Service struct {
	questions  QuestionStore
	categories CategoryStore
	cache      CategoryCache
	selector   *Selector
	perPage    int
	logger     zerolog.Logger
}

type ServiceOptions struct {
	// Cache is optional.
	Cache CategoryCache
	// Selector defaults to a clock-seeded one.
	Selector *Selector
	// PerPage is clamped to 1..QuestionsPerPage.
	PerPage int
}

func NewService(questions QuestionStore, categories CategoryStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.Selector == nil {
		opts.Selector = NewSelector(0)
	}
	if opts.PerPage <= 0 || opts.PerPage > QuestionsPerPage {
		opts.PerPage = QuestionsPerPage
	}
	return &Service{
		questions:  questions,
		categories: categories,
		cache:      opts.Cache,
		selector:   opts.Selector,
		perPage:    opts.PerPage,
		logger:     logger.With().Str("component", "trivia").Logger(),
	}
}

// Categories returns the id->label map, possibly empty. Reads go through the
// cache when one is configured; cache failures fall back to the store.
func (s *Service) Categories(ctx context.Context) (Categories, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, internal("list categories", err)
	}
	categories := make(Categories, len(rows))
	for _, row := range rows {
		categories[row.ID] = row.Type
	}

	if s.cache != nil && len(categories) > 0 {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

// ListCategories fails with NotFound when no categories exist.
func (s *Service) ListCategories(ctx context.Context) (Categories, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, notFound("no categories")
	}
	return categories, nil
}

// ListQuestions returns one page of all questions plus the category map.
// An empty page, including an empty table, is NotFound.
func (s *Service) ListQuestions(ctx context.Context, page int) (_ QuestionPage, err error) {
	ctx, span := startSpan(ctx, "list_questions", attribute.Int("trivia.page", page))
	defer func() { endSpan(span, err) }()

	rows, err := s.questions.List(ctx)
	if err != nil {
		return QuestionPage{}, internal("list questions", err)
	}
	current := Paginate(rows, page, s.perPage)
	if len(current) == 0 {
		return QuestionPage{}, notFound(fmt.Sprintf("page %d out of range", page))
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return QuestionPage{}, err
	}
	return QuestionPage{
		Questions:      fromRows(current),
		TotalQuestions: len(rows),
		Categories:     categories,
	}, nil
}

// GetQuestion fetches a single question by id.
func (s *Service) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row, err := s.questions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, queries.ErrNoRows) {
			return Question{}, notFound(fmt.Sprintf("question %d not found", id))
		}
		return Question{}, internal("get question", err)
	}
	return fromRow(row), nil
}

// CreateQuestion validates req and stores it. Missing fields are BadRequest;
// an out-of-range difficulty or unknown category is Unprocessable.
func (s *Service) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (_ Question, err error) {
	ctx, span := startSpan(ctx, "create_question")
	defer func() { endSpan(span, err) }()

	if err := validateCreate(req); err != nil {
		return Question{}, err
	}

	if _, err := s.categories.Get(ctx, *req.Category); err != nil {
		if errors.Is(err, queries.ErrNoRows) {
			return Question{}, unprocessable(fmt.Sprintf("category %d does not exist", *req.Category))
		}
		return Question{}, internal("get category", err)
	}

	row, err := s.questions.Insert(ctx, queries.InsertQuestionParams{
		Question:   strings.TrimSpace(*req.Question),
		Answer:     strings.TrimSpace(*req.Answer),
		Category:   *req.Category,
		Difficulty: int32(*req.Difficulty),
	})
	if err != nil {
		return Question{}, internal("insert question", err)
	}
	return fromRow(row), nil
}

func validateCreate(req CreateQuestionRequest) error {
	switch {
	case req.Question == nil || strings.TrimSpace(*req.Question) == "":
		return badRequest("question is required")
	case req.Answer == nil || strings.TrimSpace(*req.Answer) == "":
		return badRequest("answer is required")
	case req.Category == nil:
		return badRequest("category is required")
	case req.Difficulty == nil:
		return badRequest("difficulty is required")
	case *req.Difficulty < MinDifficulty || *req.Difficulty > MaxDifficulty:
		return unprocessable(fmt.Sprintf("difficulty must be between %d and %d", MinDifficulty, MaxDifficulty))
	}
	return nil
}

// DeleteQuestion removes id permanently; deleting an absent id is NotFound,
// so a repeated delete never reports success.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "delete_question", attribute.Int64("trivia.question_id", id))
	defer func() { endSpan(span, err) }()

	deleted, err := s.questions.Delete(ctx, id)
	if err != nil {
		return internal("delete question", err)
	}
	if !deleted {
		return notFound(fmt.Sprintf("question %d not found", id))
	}
	return nil
}

// SearchQuestions pages the case-insensitive substring matches of term
// against question text. The term is matched as given, surrounding spaces
// included; a blank term is BadRequest. No matches is a successful, empty page.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (_ QuestionPage, err error) {
	ctx, span := startSpan(ctx, "search_questions", attribute.Int("trivia.page", page))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(term) == "" {
		return QuestionPage{}, badRequest("search_term is required")
	}
	rows, err := s.questions.Search(ctx, term)
	if err != nil {
		return QuestionPage{}, internal("search questions", err)
	}
	return QuestionPage{
		Questions:      fromRows(Paginate(rows, page, s.perPage)),
		TotalQuestions: len(rows),
	}, nil
}

// QuestionsByCategory pages the questions of one category. Both an unknown
// category and an empty page are NotFound.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int64, page int) (_ QuestionPage, err error) {
	ctx, span := startSpan(ctx, "questions_by_category",
		attribute.Int64("trivia.category_id", categoryID),
		attribute.Int("trivia.page", page))
	defer func() { endSpan(span, err) }()

	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		if errors.Is(err, queries.ErrNoRows) {
			return QuestionPage{}, notFound(fmt.Sprintf("category %d not found", categoryID))
		}
		return QuestionPage{}, internal("get category", err)
	}

	rows, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, internal("list questions by category", err)
	}
	current := Paginate(rows, page, s.perPage)
	if len(current) == 0 {
		return QuestionPage{}, notFound(fmt.Sprintf("no questions on page %d of category %d", page, categoryID))
	}
	label := category.Type
	return QuestionPage{
		Questions:       fromRows(current),
		TotalQuestions:  len(rows),
		CurrentCategory: &label,
	}, nil
}

// NextQuizQuestion picks an unasked question from the requested category, or
// from all questions when none is given. A nil question means the quiz is over.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (_ *Question, err error) {
	ctx, span := startSpan(ctx, "next_quiz_question", attribute.Int("trivia.previous_questions", len(req.PreviousQuestions)))
	defer func() { endSpan(span, err) }()

	var rows []queries.Question
	if category := req.CategoryFilter(); category != nil {
		rows, err = s.questions.ListByCategory(ctx, *category)
	} else {
		rows, err = s.questions.List(ctx)
	}
	if err != nil {
		return nil, internal("load quiz questions", err)
	}

	next, ok := s.selector.Pick(fromRows(rows), req.PreviousQuestions)
	if !ok {
		quizExhausted.Inc()
		span.SetAttributes(attribute.Bool("trivia.quiz_exhausted", true))
		return nil, nil
	}
	quizQuestionsServed.Inc()
	return &next, nil
}
