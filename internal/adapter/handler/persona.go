package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	personaDTO "github.com/avinci-labs/avinci/internal/adapter/dto/persona"
	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/usecase/compiler"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
)

// Persona exposes the persona lifecycle over HTTP.
type Persona struct {
	compiler compiler.Service
	logger   *zap.Logger
}

// NewPersona creates the persona handler
func NewPersona(compilerSvc compiler.Service, logger *zap.Logger) *Persona {
	return &Persona{compiler: compilerSvc, logger: logger}
}

// Compile turns a research transcript into a persisted persona.
// POST /v1/personas/compile
func (h *Persona) Compile(c echo.Context) error {
	var req personaDTO.CompileRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, usecaseErrors.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, usecaseErrors.NewValidationError(err.Error()))
	}

	persona, err := h.compiler.Compile(c.Request().Context(), req.Transcript, req.Demographics.ToEntity())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, personaDTO.FromEntity(persona))
}

// List returns personas, active only unless include_archived=true.
// GET /v1/personas
func (h *Persona) List(c echo.Context) error {
	includeArchived := c.QueryParam("include_archived") == "true"

	personas, err := h.compiler.List(c.Request().Context(), includeArchived)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, personaDTO.FromEntities(personas))
}

// Get returns one persona by id.
// GET /v1/personas/:id
func (h *Persona) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, entities.ErrPersonaNotFound)
	}

	persona, err := h.compiler.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, personaDTO.FromEntity(persona))
}

// Archive retires a persona from new calls. History is preserved.
// POST /v1/personas/:id/archive
func (h *Persona) Archive(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, entities.ErrPersonaNotFound)
	}

	persona, err := h.compiler.Archive(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, personaDTO.FromEntity(persona))
}
