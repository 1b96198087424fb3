package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// CallRepository is the durable store for call sessions and their turn log.
// Calls transition open → closed exactly once; events are append-only and are
// never updated or deleted.
type CallRepository interface {
	CreateCall(ctx context.Context, call *entities.Call) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Call, error)
	EndCall(ctx context.Context, id uuid.UUID) error
	AppendEvent(ctx context.Context, event *entities.CallEvent) error
	GetRecentEvents(ctx context.Context, callID uuid.UUID, limit int) ([]*entities.CallEvent, error)
}
