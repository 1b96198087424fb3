package persona

import (
	"time"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// CompileRequest is the payload for compiling a persona from a research
// transcript plus manually supplied demographics.
type CompileRequest struct {
	Transcript   string             `json:"transcript" validate:"required"`
	Demographics DemographicsFields `json:"demographics" validate:"required"`
}

// DemographicsFields mirrors the manually authored half of a persona.
type DemographicsFields struct {
	Name       string `json:"name" validate:"required"`
	Age        int    `json:"age" validate:"omitempty,gte=1,lte=120"`
	Gender     string `json:"gender" validate:"omitempty,oneof=female male other"`
	Location   string `json:"location"`
	Occupation string `json:"occupation"`
}

// ToEntity converts the request demographics to the domain shape.
func (d DemographicsFields) ToEntity() entities.Demographics {
	return entities.Demographics{
		Name:       d.Name,
		Age:        d.Age,
		Gender:     d.Gender,
		Location:   d.Location,
		Occupation: d.Occupation,
	}
}

// Response is the public persona shape. The master prompt is internal and
// never leaves the service.
type Response struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender,omitempty"`
	Location   string    `json:"location,omitempty"`
	Occupation string    `json:"occupation,omitempty"`
	Traits     []string  `json:"traits"`
	Objectives []string  `json:"objectives"`
	Needs      []string  `json:"needs"`
	Fears      []string  `json:"fears"`
	Quote      *string   `json:"quote,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromEntity maps a persona entity to its public shape.
func FromEntity(p *entities.Persona) *Response {
	return &Response{
		ID:         p.ID.String(),
		Name:       p.Name,
		Age:        p.Age,
		Gender:     p.Gender,
		Location:   p.Location,
		Occupation: p.Occupation,
		Traits:     p.Traits,
		Objectives: p.Objectives,
		Needs:      p.Needs,
		Fears:      p.Fears,
		Quote:      p.Quote,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// FromEntities maps a persona list.
func FromEntities(personas []*entities.Persona) []*Response {
	out := make([]*Response, len(personas))
	for i, p := range personas {
		out[i] = FromEntity(p)
	}
	return out
}
