package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mentara/apiserver/internal/services"
	"github.com/mentara/apiserver/internal/store"
	"github.com/mentara/apiserver/types"
)

// CommunityHandler provides HTTP handlers for the discussion board.
type CommunityHandler struct {
	communityService *services.CommunityService
	authService      *services.AuthService
}

func NewCommunityHandler(communityService *services.CommunityService, authService *services.AuthService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
		authService:      authService,
	}
}

// CommunityRouter registers board routes on the given router. All
// routes require authentication.
func CommunityRouter(
	r chi.Router,
	communityService *services.CommunityService,
	authService *services.AuthService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewCommunityHandler(communityService, authService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListPosts)
	r.Post("/", handler.CreatePost)
	r.Route("/{postID}", func(r chi.Router) {
		r.Get("/", handler.GetPost)
		r.Delete("/", handler.DeletePost)
	})
}

func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.communityService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, PostListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *CommunityHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.communityService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, err := callerAccount(r.Context(), h.authService)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PostCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	post, err := h.communityService.Create(r.Context(), caller.ID, req.Title, req.Body, req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *CommunityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller, err := callerAccount(r.Context(), h.authService)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.communityService.Delete(r.Context(), id, caller); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, services.ErrNotPostAuthor):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete post")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type PostCreateRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

// PostListResponse is the paginated list response payload.
type PostListResponse struct {
	Items []types.Post `json:"items"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int          `json:"total"`
}
