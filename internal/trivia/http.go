package trivia

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Register mounts the routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.HandleFunc("GET /categories/{id}", h.QuestionsByCategory)
	mux.HandleFunc("GET /categories/{id}/questions", h.QuestionsByCategory)
	mux.HandleFunc("GET /questions", h.ListQuestions)
	mux.HandleFunc("POST /questions", h.CreateQuestion)
	mux.HandleFunc("GET /questions/{id}", h.GetQuestion)
	mux.HandleFunc("DELETE /questions/{id}", h.DeleteQuestion)
	mux.HandleFunc("POST /questions/search", h.SearchQuestions)
	mux.HandleFunc("POST /quizzes", h.NextQuizQuestion)
}

type categoriesResponse struct {
	Success    bool       `json:"success"`
	Categories Categories `json:"categories"`
}

type questionListResponse struct {
	Success         bool       `json:"success"`
	Questions       []Question `json:"questions"`
	Categories      Categories `json:"categories,omitempty"`
	TotalQuestions  int        `json:"total_questions"`
	CurrentCategory *string    `json:"current_category"`
}

type questionResponse struct {
	Success  bool     `json:"success"`
	Question Question `json:"question"`
}

type createdResponse struct {
	Success bool  `json:"success"`
	Created int64 `json:"created"`
}

type deletedResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type quizResponse struct {
	Success  bool      `json:"success"`
	Question *Question `json:"question"`
}

// ListCategories handles GET /categories
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}

// ListQuestions handles GET /questions?page=N
func (h *HTTPHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListQuestions(r.Context(), ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionListResponse{
		Success:        true,
		Questions:      page.Questions,
		Categories:     page.Categories,
		TotalQuestions: page.TotalQuestions,
	})
}

// GetQuestion handles GET /questions/{id}
func (h *HTTPHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.MsgQuestionNotFound)
		return
	}
	q, err := h.svc.GetQuestion(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionResponse{Success: true, Question: q})
}

// CreateQuestion handles POST /questions
func (h *HTTPHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.MsgInvalidPayload)
		return
	}
	q, err := h.svc.CreateQuestion(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, Created: q.ID})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.MsgQuestionNotFound)
		return
	}
	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Success: true, Deleted: id})
}

// SearchQuestions handles POST /questions/search?page=N
func (h *HTTPHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.MsgInvalidPayload)
		return
	}
	page, err := h.svc.SearchQuestions(r.Context(), req.Term(), ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionListResponse{
		Success:        true,
		Questions:      page.Questions,
		TotalQuestions: page.TotalQuestions,
	})
}

// QuestionsByCategory handles GET /categories/{id}?page=N
func (h *HTTPHandler) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httperrors.RespondNotFound(w, httperrors.MsgCategoryNotFound)
		return
	}
	page, err := h.svc.QuestionsByCategory(r.Context(), id, ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionListResponse{
		Success:         true,
		Questions:       page.Questions,
		TotalQuestions:  page.TotalQuestions,
		CurrentCategory: page.CurrentCategory,
	})
}

// NextQuizQuestion handles POST /quizzes
func (h *HTTPHandler) NextQuizQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.MsgInvalidPayload)
		return
	}
	q, err := h.svc.NextQuizQuestion(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Success: true, Question: q})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MessageOf(err)
	switch KindOf(err) {
	case KindBadRequest:
		httperrors.RespondBadRequest(w, msg)
	case KindNotFound:
		httperrors.RespondNotFound(w, msg)
	case KindUnprocessable:
		httperrors.RespondUnprocessable(w, msg)
	default:
		logger := logging.FromContext(r.Context())
		if logger.GetLevel() == zerolog.Disabled {
			logger = h.logger
		}
		logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w, httperrors.MsgInternalError)
	}
}

// decodeJSON rejects empty bodies, malformed JSON and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON value")
	}
	return nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
