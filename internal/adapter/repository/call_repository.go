package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// CallRepository implements the call repository interface using GORM
type CallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{
		db: db,
	}
}

// CreateCall creates a new call session
func (r *CallRepository) CreateCall(ctx context.Context, call *entities.Call) error {
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

// FindByID finds a call by ID
func (r *CallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Call, error) {
	var call entities.Call
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&call).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to find call by ID: %w", err)
	}
	return &call, nil
}

// EndCall closes a call
func (r *CallRepository) EndCall(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ? AND status = ?", id, entities.CallStatusOpen).
		Updates(map[string]interface{}{
			"status":   entities.CallStatusClosed,
			"ended_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to end call: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the call does not exist or it was already closed.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return entities.ErrCallClosed
	}
	return nil
}

// AppendEvent appends one turn to the call log. Events are insert-only; there
// is no update path, so concurrent appends cannot conflict.
func (r *CallRepository) AppendEvent(ctx context.Context, event *entities.CallEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append call event: %w", err)
	}
	return nil
}

// GetRecentEvents returns the latest events for a call, oldest first. Ordering
// uses the insert sequence, not created_at, so rapid appends never tie.
func (r *CallRepository) GetRecentEvents(ctx context.Context, callID uuid.UUID, limit int) ([]*entities.CallEvent, error) {
	var events []*entities.CallEvent
	if err := r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Order("seq DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}

	// Query is newest-first for the LIMIT; flip to chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
