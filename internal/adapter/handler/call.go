package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	callDTO "github.com/avinci-labs/avinci/internal/adapter/dto/call"
	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/infrastructure/realtime"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
	"github.com/avinci-labs/avinci/internal/usecase/interview"
)

// maxAudioBytes caps uploaded moderator audio at 10 MB.
const maxAudioBytes = 10 << 20

// Call exposes call sessions over HTTP and websocket.
type Call struct {
	interview interview.Service
	hub       *realtime.Hub
	logger    *zap.Logger
}

// NewCall creates the call handler
func NewCall(interviewSvc interview.Service, hub *realtime.Hub, logger *zap.Logger) *Call {
	return &Call{interview: interviewSvc, hub: hub, logger: logger}
}

// Create opens a call session.
// POST /v1/calls
func (h *Call) Create(c echo.Context) error {
	var req callDTO.CreateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, usecaseErrors.NewValidationError("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, usecaseErrors.NewValidationError(err.Error()))
	}

	ids, err := req.ParsedParticipantIDs()
	if err != nil {
		return HandleError(h.logger, c, usecaseErrors.NewValidationError("invalid participant id"))
	}

	call, err := h.interview.CreateCall(c.Request().Context(), ids, req.Topic, entities.CallType(req.Type))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusCreated, callDTO.FromEntity(call))
}

// SubmitTurn accepts one moderator turn. JSON bodies carry text; multipart
// bodies carry an "audio" file that goes through speech-to-text.
// POST /v1/calls/:id/turns
func (h *Call) SubmitTurn(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, entities.ErrCallNotFound)
	}

	text, audio, err := h.readTurn(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.interview.SubmitTurn(c.Request().Context(), id, text, audio)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, result)
}

// End closes the call. Already-scheduled responses still deliver.
// POST /v1/calls/:id/end
func (h *Call) End(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, entities.ErrCallNotFound)
	}

	call, err := h.interview.EndCall(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, callDTO.FromEntity(call))
}

// Get returns the call with its recent turn history.
// GET /v1/calls/:id
func (h *Call) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, entities.ErrCallNotFound)
	}

	detail, err := h.interview.GetCall(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, &callDTO.DetailResponse{
		Call:   callDTO.FromEntity(detail.Call),
		Events: callDTO.EventsFromEntities(detail.Events),
	})
}

// Join subscribes a websocket client to the call's event stream.
// GET /v1/calls/:id/ws
func (h *Call) Join(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, entities.ErrCallNotFound)
	}

	if _, err := h.interview.GetCall(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return h.hub.Join(id.String(), c.Response(), c.Request())
}

func (h *Call) readTurn(c echo.Context) (string, []byte, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		file, err := c.FormFile("audio")
		if err != nil {
			return "", nil, usecaseErrors.NewValidationError("multipart turn requires an audio file")
		}
		src, err := file.Open()
		if err != nil {
			return "", nil, usecaseErrors.NewValidationError("unreadable audio file")
		}
		defer src.Close()

		audio, err := io.ReadAll(io.LimitReader(src, maxAudioBytes))
		if err != nil {
			return "", nil, usecaseErrors.NewValidationError("unreadable audio file")
		}
		return c.FormValue("text"), audio, nil
	}

	var req callDTO.TurnRequest
	if err := c.Bind(&req); err != nil {
		return "", nil, usecaseErrors.NewValidationError("invalid request body")
	}
	return req.Text, nil, nil
}
