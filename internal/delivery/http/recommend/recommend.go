package http_recommend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/movienight/core/internal/delivery/http/common"
	ws_session "github.com/humanbelnik/movienight/core/internal/delivery/ws/session"
	"github.com/humanbelnik/movienight/core/internal/model"
	usecase_recommend "github.com/humanbelnik/movienight/core/internal/usecase/recommend"
)

type Controller struct {
	uc  *usecase_recommend.Usecase
	hub *ws_session.Hub

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(uc *usecase_recommend.Usecase,
	hub *ws_session.Hub,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		uc:  uc,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/groups/:group_id/recommendations", c.start)

	sessions := router.Group("/sessions")
	{
		sessions.GET("/:session_id", c.view)
		sessions.POST("/:session_id/events", c.event)
		sessions.DELETE("/:session_id", c.dismiss)
		sessions.GET("/:session_id/ws", c.subscribe)
	}
}

// StartRequestDTO
type StartRequestDTO struct {
	Requester       string `json:"requester" binding:"required" example:"184467440737095516"`
	PresenceChannel string `json:"presence_channel,omitempty" example:"voice-general"`
}

// EventRequestDTO
type EventRequestDTO struct {
	Control  model.ControlID `json:"control" binding:"required" example:"attendance.present"`
	Identity string          `json:"identity" binding:"required" example:"184467440737095516"`
}

// Start
// @Summary Start a recommendation
// @Description Opens a session for the group. Without a presence channel attendance is taken manually.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param request body StartRequestDTO true "Requester and optional presence channel"
// @Success 201 {object} model.View "Current view of the session"
// @Failure 400 {object} http_common.ErrorResponse "Invalid request"
// @Router /groups/{group_id}/recommendations [post]
func (c *Controller) start(ctx *gin.Context) {
	var req StartRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request body",
		})
		return
	}

	view, err := c.uc.Start(ctx, usecase_recommend.StartRequest{
		GroupID:         ctx.Param("group_id"),
		Requester:       req.Requester,
		PresenceChannel: req.PresenceChannel,
	})
	if err != nil {
		c.logger.Error("failed to start recommendation", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}

	ctx.JSON(http.StatusCreated, view)
}

// View
// @Summary Current session view
// @Tags Recommendations
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} model.View
// @Failure 400 {object} http_common.ErrorResponse "Invalid session ID"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [get]
func (c *Controller) view(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	view, err := c.uc.View(id)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// Event
// @Summary Press a control
// @Description Presses by anyone but the requester are accepted and ignored.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body EventRequestDTO true "Control and acting identity"
// @Success 200 {object} model.View
// @Failure 400 {object} http_common.ErrorResponse "Invalid request"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Control not available in the current state"
// @Router /sessions/{session_id}/events [post]
func (c *Controller) event(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	var req EventRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request body",
		})
		return
	}

	view, err := c.uc.HandleEvent(ctx, id, model.Event{
		Control:  req.Control,
		Identity: req.Identity,
	})
	if err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// Dismiss
// @Summary Dismiss a session
// @Tags Recommendations
// @Param session_id path string true "Session ID"
// @Success 204
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [delete]
func (c *Controller) dismiss(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	if err := c.uc.Dismiss(id); err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Subscribe
// @Summary Live session updates
// @Description Upgrades to a WebSocket. Every render is pushed as SESSION_RENDER, text messages are read as control presses.
// @Tags Recommendations
// @Param session_id path string true "Session ID"
// @Success 101
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/ws [get]
func (c *Controller) subscribe(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	current, err := c.uc.View(id)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := ws_session.NewClient(c.hub, conn, id)
	c.hub.RegisterClient(client)
	c.hub.Send(client, ws_session.Event{Type: ws_session.EventSessionRender, Payload: current})

	go c.hub.StartClientWriting(client)
	go c.hub.StartClientReading(client, c.uc)
}

func (c *Controller) sessionID(ctx *gin.Context) (model.SessionID, bool) {
	id, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid session id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase_recommend.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "not found",
		})
	case errors.Is(err, usecase_recommend.ErrUnsupportedControl):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
			Message: err.Error(),
		})
	default:
		c.logger.Error("request failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
