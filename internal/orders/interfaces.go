package orders

import (
	"context"

	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order batches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, batch *models.OrderBatch) (*models.OrderBatch, error)
	FindBatch(ctx context.Context, batchID uuid.UUID) (*models.OrderBatch, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.OrderBatch, error)
	ListSessionBatches(ctx context.Context, sessionID uuid.UUID) ([]models.OrderBatch, error)
	MarkForwarded(ctx context.Context, batchID uuid.UUID) error
}

// BatchSubmitter is the order service's batch-create surface.
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type tableSelection interface {
	Selected(ctx context.Context, scopeKey string) (*int, error)
	Reset(ctx context.Context, scopeKey string) error
}
