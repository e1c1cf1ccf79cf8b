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

// AnalyticsHandler provides HTTP handlers for the analytics views.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// AnalyticsRouter registers analytics routes. Student reports are open
// to any authenticated caller; class views and grade entry require the
// teacher or admin role.
func AnalyticsRouter(
	r chi.Router,
	analyticsService *services.AnalyticsService,
	authService *services.AuthService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAnalyticsHandler(analyticsService)
	staffOnly := RequireRole(authService, types.RoleTeacher, types.RoleAdmin)

	r.Use(authMiddleware)
	r.Get("/students/{studentID}/report", handler.StudentReport)
	r.Get("/classes", handler.ListClasses)
	r.With(staffOnly).Get("/classes/{classID}/overview", handler.ClassOverview)
	r.With(staffOnly).Get("/classes/{classID}/assignments", handler.ClassAssignments)
	r.With(staffOnly).Post("/classes/{classID}/assignments", handler.CreateAssignment)
	r.With(staffOnly).Post("/grades", handler.RecordGrade)
}

func (h *AnalyticsHandler) StudentReport(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "studentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.analyticsService.StudentReport(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.analyticsService.ListClasses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *AnalyticsHandler) ClassOverview(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "classID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := h.analyticsService.ClassOverview(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "class not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build overview")
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *AnalyticsHandler) ClassAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "classID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assignments, err := h.analyticsService.ClassAssignments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *AnalyticsHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	classID, err := parseIDParam(chi.URLParam(r, "classID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req types.Assignment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.ClassID = classID
	if req.Title == "" || req.SubjectID == 0 {
		writeError(w, http.StatusBadRequest, "title and subject_id are required")
		return
	}

	created, err := h.analyticsService.CreateAssignment(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AnalyticsHandler) RecordGrade(w http.ResponseWriter, r *http.Request) {
	var req types.Grade
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.StudentID == 0 || req.SubjectID == 0 {
		writeError(w, http.StatusBadRequest, "student_id and subject_id are required")
		return
	}

	created, err := h.analyticsService.RecordGrade(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record grade")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
