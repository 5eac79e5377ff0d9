package resumes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/extract"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/users"
)

const maxImportSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group. Status and log
// routes are recruiter-only; the role gate lives in middleware, not here.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume", h.create)
	rg.POST("/resumes/import", h.importFile)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:userResumeId", h.detail)
	rg.PATCH("/resumes/:userResumeId", h.update)
	rg.DELETE("/resumes/:userResumeId", h.remove)

	recruiterOnly := rg.Group("", middleware.RequireRole(users.RoleRecruiter))
	recruiterOnly.PATCH("/resumes/:userResumeId/status", h.updateStatus)
	recruiterOnly.GET("/resumes/:userResumeId/logs", h.logs)
}

type createRequest struct {
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.CreateResume(c.Request.Context(), userID, req.Title, req.Introduction)
	if err != nil {
		h.renderError(c, err, "failed to create resume")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func (h *Handler) importFile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	title := c.PostForm("title")

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	text, err := extract.TextFromBytes(c.Request.Context(), raw, mimeType, fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", fmt.Sprintf("unable to extract text: %v", err), nil)
		return
	}

	resume, err := h.Svc.CreateResume(c.Request.Context(), userID, title, text)
	if err != nil {
		h.renderError(c, err, "failed to import resume")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(resume))
}

func (h *Handler) list(c *gin.Context) {
	viewer := viewerFromContext(c)

	result, err := h.Svc.GetResumes(c.Request.Context(), viewer, c.Query("sort"), c.Query("status"))
	if err != nil {
		h.renderError(c, err, "failed to list resumes")
		return
	}

	resp := make([]ResumeResponse, 0, len(result))
	for _, resume := range result {
		resp = append(resp, toResponse(resume))
	}
	respond.OK(c, resp)
}

func (h *Handler) detail(c *gin.Context) {
	viewer := viewerFromContext(c)

	id, ok := resumeParam(c)
	if !ok {
		return
	}

	resume, err := h.Svc.GetResumeByID(c.Request.Context(), viewer, id)
	if err != nil {
		h.renderError(c, err, "failed to fetch resume")
		return
	}

	respond.OK(c, toResponse(resume))
}

type updateRequest struct {
	Title        *string `json:"title"`
	Introduction *string `json:"introduction"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := resumeParam(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	resume, err := h.Svc.UpdateResume(c.Request.Context(), userID, id, req.Title, req.Introduction)
	if err != nil {
		h.renderError(c, err, "failed to update resume")
		return
	}

	respond.OK(c, toResponse(resume))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := resumeParam(c)
	if !ok {
		return
	}

	if err := h.Svc.DeleteResume(c.Request.Context(), userID, id); err != nil {
		h.renderError(c, err, "failed to delete resume")
		return
	}

	respond.OK(c, gin.H{"message": "resume deleted"})
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	recruiterID := middleware.UserIDFromContext(c)

	id, ok := resumeParam(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	logEntry, err := h.Svc.UpdateResumeStatus(c.Request.Context(), recruiterID, id, req.Status, req.Reason)
	if err != nil {
		h.renderError(c, err, "failed to update resume status")
		return
	}

	c.Set("resumeId", logEntry.ResumeID)
	c.Set("statusTransition", string(logEntry.PreviousStatus)+"->"+string(logEntry.NewStatus))
	respond.OK(c, toLogResponse(logEntry))
}

func (h *Handler) logs(c *gin.Context) {
	id, ok := resumeParam(c)
	if !ok {
		return
	}

	result, err := h.Svc.GetResumeLogs(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err, "failed to list resume logs")
		return
	}

	resp := make([]LogResponse, 0, len(result))
	for _, logEntry := range result {
		resp = append(resp, toLogResponse(logEntry))
	}
	respond.OK(c, resp)
}

func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

// viewerFromContext maps the authenticated role onto a store viewer:
// recruiters read unscoped by global ID, everyone else reads their own rows
// by sequence number.
func viewerFromContext(c *gin.Context) Viewer {
	if middleware.UserRoleFromContext(c) == users.RoleRecruiter {
		return Recruiter()
	}
	return Applicant(middleware.UserIDFromContext(c))
}

// resumeParam parses the identifier path segment. An unparseable identifier
// can match no resume, so it renders not-found directly.
func resumeParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userResumeId"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		return 0, false
	}
	return id, true
}
