package projects

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"building-lca/project-portal-backend/internal/auth"
)

// Handler handles HTTP requests for the project publication workflow.
type Handler struct {
	service ProjectService
	logger  *zap.Logger
}

// NewHandler creates a new projects handler.
func NewHandler(service ProjectService, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers project workflow routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.projectsByState)
		projects.GET("/mine", h.myProjects)
		projects.GET("/review", h.projectsForReview)
		projects.GET("/assigned", h.assignedProjects)
		projects.GET("/:id", h.getProject)
		projects.GET("/:id/actions", h.allowedActions)
		projects.DELETE("/:id", h.deleteProject)

		projects.POST("/:id/submit", h.submitForReview)
		projects.POST("/:id/approve", h.approveProject)
		projects.POST("/:id/reject", h.rejectProject)
		projects.POST("/:id/publish", h.publishProject)
		projects.POST("/:id/unpublish", h.unpublishProject)
		projects.POST("/:id/lock", h.lockProject)
		projects.POST("/:id/unlock", h.unlockProject)
		projects.POST("/:id/assign", h.assignProject)
	}
}

func (h *Handler) createProject(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), req, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) getProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) allowedActions(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": AllowedActions(project, actor)})
}

// transition wraps the shared plumbing of the nine workflow endpoints.
func (h *Handler) transition(c *gin.Context, op func(actor auth.Actor, id uuid.UUID) (*Project, error)) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := op(actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) submitForReview(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.SubmitForReview(c.Request.Context(), id, actor)
	})
}

func (h *Handler) approveProject(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.ApproveProject(c.Request.Context(), id, actor)
	})
}

func (h *Handler) rejectProject(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.RejectProject(c.Request.Context(), id, actor)
	})
}

func (h *Handler) publishProject(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.PublishProject(c.Request.Context(), id, actor)
	})
}

func (h *Handler) unpublishProject(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.UnpublishProject(c.Request.Context(), id, actor)
	})
}

func (h *Handler) lockProject(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.LockProject(c.Request.Context(), id, actor)
	})
}

func (h *Handler) unlockProject(c *gin.Context) {
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.UnlockProject(c.Request.Context(), id, actor)
	})
}

type assignRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

func (h *Handler) assignProject(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Project, error) {
		return h.service.AssignProject(c.Request.Context(), id, actor, req.AssigneeID)
	})
}

func (h *Handler) deleteProject(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	deleted, err := h.service.DeleteProject(c.Request.Context(), id, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) projectsByState(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	state := ProjectState(c.Query("state"))
	if state == "" {
		state = StateDraft
	}

	result, err := h.service.ProjectsByState(c.Request.Context(), state, actor, h.listOptions(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) projectsForReview(c *gin.Context) {
	h.list(c, h.service.ProjectsForReview)
}

func (h *Handler) myProjects(c *gin.Context) {
	h.list(c, h.service.MyProjects)
}

func (h *Handler) assignedProjects(c *gin.Context) {
	h.list(c, h.service.AssignedProjects)
}

func (h *Handler) list(c *gin.Context, query func(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error)) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	result, err := query(c.Request.Context(), actor, h.listOptions(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) listOptions(c *gin.Context) ListOptions {
	opts := ListOptions{}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		opts.Offset = v
	}
	return opts
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("project request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
