package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
	"github.com/cargoseal/cargoseal_backend/internal/middleware"
)

// sessionHandler handles HTTP requests related to shipment sessions.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

// newSessionHandler creates a new sessionHandler.
func newSessionHandler(ss portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessionService: ss}
}

// registerSessionRoutes registers routes related to sessions.
func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessionService)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.GET("", h.listSessions)
		sessions.POST("/:id/seal", h.attachSeal)
		sessions.POST("/:id/seal/verify", h.verifySeal)
		sessions.POST("/:id/comments", h.addComment)
	}
}

// createSession godoc
// @Summary Start a shipment session
// @Description Operator-only; debits one coin from the operator's company pool
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   session body dto.CreateSessionRequest true "Session details"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or operator without company"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Caller is not an operator"
// @Failure 409 {object} ErrorResponse "Barcode already in use"
// @Failure 422 {object} ErrorResponse "Company pool has no coins"
// @Failure 500 {object} ErrorResponse "Failed to create session"
// @Security BearerAuth
// @Router /sessions [post]
func (h *sessionHandler) createSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), actorID, req)
	if err != nil {
		logger.Warn("Failed to create session", slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to create session")})
		return
	}

	logger.Info("Session created", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// getSession godoc
// @Summary Get a session by ID
// @Description Retrieves a session with its seal and comments
// @Tags sessions
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Session outside the caller's scope"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve session"
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), actorID, sessionID)
	if err != nil {
		logger.Warn("Failed to get session", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to retrieve session")})
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// listSessions godoc
// @Summary List sessions
// @Description Retrieves sessions visible to the caller per the role visibility rules
// @Tags sessions
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   companyID query string false "Filter by company"
// @Param   needsVerification query bool false "Only sessions awaiting seal verification"
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Success 200 {object} dto.ListSessionsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list sessions"
// @Security BearerAuth
// @Router /sessions [get]
func (h *sessionHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSessionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.sessionService.ListSessions(c.Request.Context(), actorID, params)
	if err != nil {
		logger.Error("Failed to list sessions", slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to list sessions")})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// attachSeal godoc
// @Summary Attach a seal to a pending session
// @Description Creator-only; moves the session to IN_PROGRESS
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   seal body dto.AttachSealRequest true "Seal barcode"
// @Success 201 {object} dto.SealResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Caller did not create this session"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Session already sealed or barcode in use"
// @Failure 500 {object} ErrorResponse "Failed to attach seal"
// @Security BearerAuth
// @Router /sessions/{id}/seal [post]
func (h *sessionHandler) attachSeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.AttachSealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for attachSeal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	seal, err := h.sessionService.AttachSeal(c.Request.Context(), actorID, sessionID, req)
	if err != nil {
		logger.Warn("Failed to attach seal", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to attach seal")})
		return
	}

	logger.Info("Seal attached", slog.String("session_id", sessionID))
	c.JSON(http.StatusCreated, dto.ToSealResponse(seal))
}

// verifySeal godoc
// @Summary Verify a session's seal
// @Description Guard-only; records the verification and completes the session
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   verification body dto.VerifySealRequest true "Field-by-field verification checks"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Caller is not a guard of the session's company"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Seal already verified or session not sealed"
// @Failure 500 {object} ErrorResponse "Failed to verify seal"
// @Security BearerAuth
// @Router /sessions/{id}/seal/verify [post]
func (h *sessionHandler) verifySeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.VerifySealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for verifySeal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.sessionService.VerifySeal(c.Request.Context(), actorID, sessionID, req)
	if err != nil {
		logger.Warn("Failed to verify seal", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to verify seal")})
		return
	}

	logger.Info("Seal verified", slog.String("session_id", sessionID))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// addComment godoc
// @Summary Comment on a session
// @Description Appends an annotation to a session the caller may see
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   comment body dto.CreateCommentRequest true "Comment text"
// @Success 201 {object} dto.CommentResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Session outside the caller's scope"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 500 {object} ErrorResponse "Failed to add comment"
// @Security BearerAuth
// @Router /sessions/{id}/comments [post]
func (h *sessionHandler) addComment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	comment, err := h.sessionService.AddComment(c.Request.Context(), actorID, sessionID, req)
	if err != nil {
		logger.Warn("Failed to add comment", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to add comment")})
		return
	}

	c.JSON(http.StatusCreated, dto.CommentResponse{
		CommentID: comment.CommentID,
		SessionID: comment.SessionID,
		AuthorID:  comment.AuthorID,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	})
}
