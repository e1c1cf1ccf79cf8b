package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mentara/apiserver/internal/services"
	"github.com/mentara/apiserver/types"
)

// ContentHandler provides HTTP handlers for AI content generation and
// the chat tutor.
type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ContentRouter registers generation routes. Lesson and quiz generation
// is restricted to teachers and admins; the tutor and video search are
// open to any authenticated caller.
func ContentRouter(
	r chi.Router,
	contentService *services.ContentService,
	authService *services.AuthService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewContentHandler(contentService)
	staffOnly := RequireRole(authService, types.RoleTeacher, types.RoleAdmin)

	r.Use(authMiddleware)
	r.Post("/tutor", handler.Tutor)
	r.Get("/videos", handler.SearchVideos)
	r.Get("/history", handler.History)
	r.With(staffOnly).Post("/lessons", handler.GenerateLesson)
	r.With(staffOnly).Post("/quizzes", handler.GenerateQuiz)
	r.With(staffOnly).Post("/images", handler.GenerateImage)
}

func (h *ContentHandler) Tutor(w http.ResponseWriter, r *http.Request) {
	var req TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}

	reply, err := h.contentService.Tutor(r.Context(), req.Messages)
	if err != nil {
		writeError(w, http.StatusBadGateway, "tutor is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, TutorResponse{Reply: reply})
}

func (h *ContentHandler) GenerateLesson(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.contentService.GenerateLesson)
}

func (h *ContentHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.contentService.GenerateQuiz)
}

func (h *ContentHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.contentService.GenerateImage)
}

func (h *ContentHandler) generate(
	w http.ResponseWriter,
	r *http.Request,
	produce func(ctx context.Context, accountID int, prompt string) (types.GeneratedContent, error),
) {
	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	content, err := produce(r.Context(), accountID, req.Prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, "generation failed")
		return
	}

	writeJSON(w, http.StatusCreated, content)
}

func (h *ContentHandler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	_, limit, _, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.contentService.SearchVideos(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "video search is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *ContentHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := accountIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	_, limit, _, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.contentService.History(r.Context(), accountID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, history)
}

type TutorRequest struct {
	Messages []types.ChatMessage `json:"messages"`
}

type TutorResponse struct {
	Reply string `json:"reply"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}
