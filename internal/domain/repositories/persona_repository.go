package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// PersonaRepository defines persistence for compiled personas
type PersonaRepository interface {
	Create(ctx context.Context, persona *entities.Persona) error
	Update(ctx context.Context, persona *entities.Persona) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Persona, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Persona, error)
	List(ctx context.Context, includeArchived bool) ([]*entities.Persona, error)
}
