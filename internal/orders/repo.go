package orders

import (
	"context"
	"errors"

	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateBatch inserts the batch row followed by its lines.
func (r *repository) CreateBatch(ctx context.Context, batch *models.OrderBatch) (*models.OrderBatch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(batch).Error; err != nil {
		return nil, err
	}
	if len(batch.Lines) == 0 {
		return batch, nil
	}
	for i := range batch.Lines {
		if batch.Lines[i].ID == uuid.Nil {
			batch.Lines[i].ID = uuid.New()
		}
		batch.Lines[i].BatchID = batch.ID
	}
	if err := r.db.WithContext(ctx).Create(&batch.Lines).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *repository) FindBatch(ctx context.Context, batchID uuid.UUID) (*models.OrderBatch, error) {
	var batch models.OrderBatch
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", batchID).
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// FindByIdempotencyKey returns nil, nil when no batch carries key.
func (r *repository) FindByIdempotencyKey(ctx context.Context, key string) (*models.OrderBatch, error) {
	var batch models.OrderBatch
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("idempotency_key = ?", key).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

func (r *repository) ListSessionBatches(ctx context.Context, sessionID uuid.UUID) ([]models.OrderBatch, error) {
	var batches []models.OrderBatch
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&batches).Error
	return batches, err
}

// MarkForwarded flags a submitted batch once its event reached the kitchen topic.
func (r *repository) MarkForwarded(ctx context.Context, batchID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderBatch{}).
		Where("id = ? AND status = ?", batchID, enums.OrderBatchStatusSubmitted).
		Update("status", enums.OrderBatchStatusForwarded).Error
}
