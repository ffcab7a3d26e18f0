// Package handler exposes the play and catalog services over HTTP and
// WebSocket.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"relic-server/internal/engine"
	"relic-server/internal/middleware"
	"relic-server/internal/models"
	"relic-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler wires the HTTP routes to the services.
type Handler struct {
	play    service.PlayService
	catalog service.CatalogService
	hub     *Hub
	verify  middleware.TokenVerifier
	logger  *zap.Logger
}

func NewHandler(play service.PlayService, catalog service.CatalogService, hub *Hub, verify middleware.TokenVerifier, logger *zap.Logger) *Handler {
	return &Handler{
		play:    play,
		catalog: catalog,
		hub:     hub,
		verify:  verify,
		logger:  logger.Named("Handler"),
	}
}

// RegisterRoutes mounts all routes on the engine. Catalog and session routes
// require a bearer token; health stays open for probes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api", middleware.Auth(h.verify, h.logger))
	{
		api.GET("/artifacts", h.listArtifacts)
		api.GET("/artifacts/:id", h.getArtifact)
		api.GET("/artifacts/:id/stories", h.listArtifactStories)
		api.GET("/stories", h.listStories)
		api.POST("/stories", h.createStory)
		api.POST("/stories/:id/sessions", h.startSession)

		sessions := api.Group("/sessions/:id")
		{
			sessions.GET("", h.currentView)
			sessions.POST("/advance", h.advance)
			sessions.POST("/retreat", h.retreat)
			sessions.POST("/interactions/:pointId", h.activateInteraction)
			sessions.POST("/choice", h.selectChoice)
			sessions.POST("/quiz/toggle", h.toggleQuizOption)
			sessions.POST("/quiz/submit", h.submitQuiz)
			sessions.POST("/subdialog/complete", h.completeSubDialog)
			sessions.PUT("/display", h.updateDisplay)
			sessions.GET("/history", h.history)
			sessions.DELETE("", h.endSession)
			sessions.GET("/ws", h.serveWS)
		}
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- catalog ---

func (h *Handler) listArtifacts(c *gin.Context) {
	limit, offset := pagination(c)
	artifacts, err := h.catalog.ListArtifacts(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": artifacts})
}

func (h *Handler) getArtifact(c *gin.Context) {
	artifact, err := h.catalog.GetArtifact(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

func (h *Handler) listArtifactStories(c *gin.Context) {
	stories, err := h.catalog.ListStoriesByArtifact(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (h *Handler) listStories(c *gin.Context) {
	limit, offset := pagination(c)
	stories, err := h.catalog.ListStories(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

type createStoryRequest struct {
	Title      string          `json:"title" binding:"required"`
	ArtifactID string          `json:"artifactId" binding:"required"`
	Content    json.RawMessage `json:"content" binding:"required"`
}

func (h *Handler) createStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, artifactId and content are required"})
		return
	}

	summary, err := h.catalog.CreateStory(c.Request.Context(), service.CreateStoryRequest{
		Title:      req.Title,
		ArtifactID: req.ArtifactID,
		Content:    req.Content,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// --- play session ---

type startSessionResponse struct {
	SessionID uuid.UUID   `json:"sessionId"`
	View      engine.View `json:"view"`
}

func (h *Handler) startSession(c *gin.Context) {
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid story ID format"})
		return
	}

	sessionID, view, err := h.play.StartSession(c.Request.Context(), storyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, startSessionResponse{SessionID: sessionID, View: view})
}

func (h *Handler) currentView(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.play.CurrentView(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type stepResponse struct {
	Result engine.StepResult `json:"result"`
	View   engine.View       `json:"view"`
}

func (h *Handler) advance(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	result, view, err := h.play.Advance(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stepResponse{Result: result, View: view})
}

func (h *Handler) retreat(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	result, view, err := h.play.Retreat(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stepResponse{Result: result, View: view})
}

type activationResponse struct {
	Outcome engine.ActivationOutcome `json:"outcome"`
	View    engine.View              `json:"view"`
}

func (h *Handler) activateInteraction(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	outcome, view, err := h.play.ActivateInteraction(sessionID, c.Param("pointId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activationResponse{Outcome: outcome, View: view})
}

type optionIndexRequest struct {
	OptionIndex *int `json:"optionIndex" binding:"required"`
}

func (h *Handler) selectChoice(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req optionIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "optionIndex is required"})
		return
	}

	result, err := h.play.SelectChoice(sessionID, *req.OptionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) toggleQuizOption(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req optionIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "optionIndex is required"})
		return
	}

	selected, err := h.play.ToggleQuizOption(sessionID, *req.OptionIndex)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": selected})
}

type quizSubmitResponse struct {
	Status engine.SubmitStatus `json:"status"`
	Result *engine.QuizResult  `json:"result,omitempty"`
}

func (h *Handler) submitQuiz(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	result, status, err := h.play.SubmitQuiz(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizSubmitResponse{Status: status, Result: result})
}

func (h *Handler) completeSubDialog(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	view, err := h.play.CompleteSubDialog(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type displayRequest struct {
	Orientation string  `json:"orientation" binding:"required,oneof=portrait landscape"`
	Width       float64 `json:"width" binding:"required,gt=0"`
	Height      float64 `json:"height" binding:"required,gt=0"`
}

func (h *Handler) updateDisplay(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req displayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "orientation, width and height are required"})
		return
	}

	err := h.play.UpdateDisplay(sessionID, engine.Orientation(req.Orientation), engine.Extents{
		Width:  req.Width,
		Height: req.Height,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	view, err := h.play.CurrentView(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) history(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	entries, err := h.play.History(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *Handler) endSession(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.play.EndSession(sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) serveWS(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if _, err := h.play.CurrentView(sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.hub.ServeSession(c.Writer, c.Request, sessionID)
}

// --- helpers ---

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid session ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// handleServiceError maps service and engine errors to HTTP statuses.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrStoryNotFound),
		errors.Is(err, models.ErrArtifactNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, engine.ErrInvalidOptionIndex):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrNoActiveSubDialog),
		errors.Is(err, models.ErrWrongSubDialogKind),
		errors.Is(err, engine.ErrChoiceAlreadyMade):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrInvalidStoryContent),
		errors.Is(err, models.ErrSceneNotFound),
		errors.Is(err, models.ErrDialogNotFound),
		errors.Is(err, models.ErrDialogNotInteractive),
		errors.Is(err, models.ErrPointNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
