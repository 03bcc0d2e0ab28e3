package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/motorpool-trip-tickets/internal/http/middleware"
	"github.com/nurpe/motorpool-trip-tickets/internal/service"
	"github.com/nurpe/motorpool-trip-tickets/internal/sink"
)

type Handler struct {
	trips *service.TripTicketService
	log   zerolog.Logger
}

func NewHandler(trips *service.TripTicketService, log zerolog.Logger) *Handler {
	return &Handler{trips: trips, log: log}
}

// Register mounts the trip ticket routes. A nil authMiddleware leaves them open.
func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	group := router.Group("/trip-tickets")
	if authMiddleware != nil {
		group.Use(authMiddleware)
	}

	group.GET("/schema", h.schema)
	group.POST("/validate", h.validate)
	group.POST("/totals", h.totals)
	group.POST("", h.submit)

	group.POST("/forms", h.createForm)
	group.GET("/forms/:id", h.getForm)
	group.PATCH("/forms/:id", h.updateForm)
	group.DELETE("/forms/:id", h.deleteForm)
	group.POST("/forms/:id/submit", h.submitForm)
}

func (h *Handler) schema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.trips.Schema()})
}

func (h *Handler) validate(c *gin.Context) {
	raw, ok := h.bindFields(c)
	if !ok {
		return
	}

	record, errs := h.trips.Validate(raw)
	fieldErrors := map[string]string(errs)
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":  len(errs) == 0,
		"errors": fieldErrors,
		"record": record,
	})
}

func (h *Handler) totals(c *gin.Context) {
	raw, ok := h.bindFields(c)
	if !ok {
		return
	}

	totals, errs := h.trips.Totals(raw)
	if len(errs) > 0 {
		h.handleError(c, errs)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *Handler) submit(c *gin.Context) {
	raw, ok := h.bindFields(c)
	if !ok {
		return
	}

	result, err := h.trips.Submit(c.Request.Context(), service.SubmitInput{
		Raw:       raw,
		Principal: middleware.PrincipalFrom(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) createForm(c *gin.Context) {
	// an empty body, chunked or not, creates a blank form
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.trips.CreateForm(values)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *Handler) getForm(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}

	snap, err := h.trips.GetForm(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) updateForm(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}
	values, ok := h.bindFields(c)
	if !ok {
		return
	}

	snap, err := h.trips.UpdateForm(id, values)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) deleteForm(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}

	if err := h.trips.DeleteForm(id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submitForm(c *gin.Context) {
	id, ok := parseFormID(c)
	if !ok {
		return
	}

	snap, err := h.trips.SubmitForm(c.Request.Context(), id, middleware.PrincipalFrom(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.handleError(c, err)
			return
		}
		status, body := h.errorResponse(err)
		body["form"] = snap
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) bindFields(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status, body := h.errorResponse(err)
	c.JSON(status, body)
}

func (h *Handler) errorResponse(err error) (int, gin.H) {
	var (
		validationErrs service.ValidationErrors
		appErr         *sink.ApplicationError
		transportErr   *sink.TransportError
	)

	switch {
	case errors.As(err, &validationErrs):
		return http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": map[string]string(validationErrs)}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnknownField),
		errors.Is(err, service.ErrReadOnlyField):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, service.ErrSubmitInProgress):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.As(err, &appErr):
		return http.StatusBadGateway, gin.H{"error": service.FailureMessage(err), "sinkStatus": appErr.StatusCode}
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, gin.H{"error": service.FailureMessage(err)}
	default:
		h.log.Error().Err(err).Msg("trip ticket request failed")
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}
}

func parseFormID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return uuid.Nil, false
	}
	return id, true
}
