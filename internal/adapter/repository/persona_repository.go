package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// PersonaRepository implements the persona repository interface using GORM
type PersonaRepository struct {
	db *gorm.DB
}

// NewPersonaRepository creates a new persona repository
func NewPersonaRepository(db *gorm.DB) *PersonaRepository {
	return &PersonaRepository{
		db: db,
	}
}

// Create creates a new persona
func (r *PersonaRepository) Create(ctx context.Context, persona *entities.Persona) error {
	if err := r.db.WithContext(ctx).Create(persona).Error; err != nil {
		return fmt.Errorf("failed to create persona: %w", err)
	}
	return nil
}

// Update saves a changed persona. The caller is responsible for regenerating
// the master system prompt before saving.
func (r *PersonaRepository) Update(ctx context.Context, persona *entities.Persona) error {
	if err := r.db.WithContext(ctx).Save(persona).Error; err != nil {
		return fmt.Errorf("failed to update persona: %w", err)
	}
	return nil
}

// FindByID finds a persona by ID
func (r *PersonaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Persona, error) {
	var persona entities.Persona
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&persona).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrPersonaNotFound
		}
		return nil, fmt.Errorf("failed to find persona by ID: %w", err)
	}
	return &persona, nil
}

// FindByIDs resolves a call roster, preserving the order of the given ids.
func (r *PersonaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Persona, error) {
	var personas []*entities.Persona
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&personas).Error; err != nil {
		return nil, fmt.Errorf("failed to find personas by IDs: %w", err)
	}

	byID := make(map[uuid.UUID]*entities.Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}

	ordered := make([]*entities.Persona, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// List returns personas, optionally including archived ones
func (r *PersonaRepository) List(ctx context.Context, includeArchived bool) ([]*entities.Persona, error) {
	var personas []*entities.Persona
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeArchived {
		query = query.Where("status = ?", entities.PersonaStatusActive)
	}
	if err := query.Find(&personas).Error; err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	return personas, nil
}
