package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
	pkgvalidator "github.com/avinci-labs/avinci/pkg/validator"
)

type fakeCompiler struct {
	persona  *entities.Persona
	personas []*entities.Persona
	err      error
}

func (f *fakeCompiler) Analyze(ctx context.Context, transcript string, demographics entities.Demographics) (*entities.AnalysisResult, error) {
	return nil, f.err
}

func (f *fakeCompiler) Compile(ctx context.Context, transcript string, demographics entities.Demographics) (*entities.Persona, error) {
	return f.persona, f.err
}

func (f *fakeCompiler) Get(ctx context.Context, id uuid.UUID) (*entities.Persona, error) {
	return f.persona, f.err
}

func (f *fakeCompiler) List(ctx context.Context, includeArchived bool) ([]*entities.Persona, error) {
	return f.personas, f.err
}

func (f *fakeCompiler) Archive(ctx context.Context, id uuid.UUID) (*entities.Persona, error) {
	return f.persona, f.err
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = pkgvalidator.New()
	return e
}

func TestCompileHandler_Success(t *testing.T) {
	p := &entities.Persona{ID: uuid.New(), Name: "Priya", Age: 32, Status: entities.PersonaStatusActive}
	h := NewPersona(&fakeCompiler{persona: p}, nil)
	e := newEcho()

	body := `{"transcript": "long enough transcript text", "demographics": {"name": "Priya", "age": 32}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/personas/compile", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Compile(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Data.Name != "Priya" {
		t.Errorf("name = %q", resp.Data.Name)
	}
}

func TestCompileHandler_MissingTranscript(t *testing.T) {
	h := NewPersona(&fakeCompiler{}, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/v1/personas/compile", strings.NewReader(`{"demographics": {"name": "Priya"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Compile(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCompileHandler_ShortTranscript(t *testing.T) {
	h := NewPersona(&fakeCompiler{err: usecaseErrors.NewValidationError("Transcript is too short (minimum 50 characters)")}, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/v1/personas/compile", strings.NewReader(`{"transcript": "short", "demographics": {"name": "Priya"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Compile(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "minimum 50 characters") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetPersonaHandler_NotFound(t *testing.T) {
	h := NewPersona(&fakeCompiler{err: entities.ErrPersonaNotFound}, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/personas/:id")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestArchivePersonaHandler(t *testing.T) {
	archived := &entities.Persona{ID: uuid.New(), Name: "Priya", Status: entities.PersonaStatusArchived}
	h := NewPersona(&fakeCompiler{persona: archived}, nil)
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/personas/:id/archive")
	c.SetParamNames("id")
	c.SetParamValues(archived.ID.String())

	if err := h.Archive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"archived"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
