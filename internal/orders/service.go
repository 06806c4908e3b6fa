package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/tableserve-backend/internal/pricing"
	"github.com/angelmondragon/tableserve-backend/internal/sessions"
	dbpkg "github.com/angelmondragon/tableserve-backend/pkg/db"
	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const idempotencyConstraint = "idempotency_key"

// Service is the order service: it stores submitted batches and queues them
// for the kitchen.
type Service interface {
	BatchSubmitter
	GetBatch(ctx context.Context, batchID uuid.UUID) (*Batch, error)
	ListSessionBatches(ctx context.Context, sessionID uuid.UUID) ([]Batch, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	sessions sessions.Reader
	logg     *logger.Logger
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher, sessionReader sessions.Reader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if sessionReader == nil {
		return nil, fmt.Errorf("session reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outbox,
		sessions: sessionReader,
		logg:     logg,
	}, nil
}

// SubmitBatch stores every line of req as one batch and queues the
// order_batch_submitted event in the same transaction.
func (s *service) SubmitBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	stamp, err := validateBatch(req)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.RestaurantID != stamp.RestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "session belongs to another restaurant")
	}

	if req.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup idempotency key")
		}
		if existing != nil {
			return s.replay(ctx, *existing, req)
		}
	}

	if !session.Open() {
		return nil, pkgerrors.Warning(WarningSessionClosed, "table session has ended")
	}

	batch := buildBatch(req, stamp)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).CreateBatch(ctx, batch)
		if err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderBatchSubmitted,
			AggregateType: enums.AggregateOrderBatch,
			AggregateID:   created.ID,
			Actor:         actorOf(req, stamp),
			Data:          submittedEvent(*created),
			Version:       1,
		})
	})
	if err != nil {
		if req.IdempotencyKey != "" && dbpkg.IsUniqueViolation(err, idempotencyConstraint) {
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
			if findErr == nil && existing != nil {
				return s.replay(ctx, *existing, req)
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order batch")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"batch_id":     batch.ID.String(),
		"session_id":   batch.SessionID.String(),
		"table_number": batch.TableNumber,
		"line_count":   batch.LineCount,
		"total":        batch.Total.StringFixed(2),
	})
	s.logg.Info(logCtx, "order batch submitted")
	return &BatchResult{Batch: batchFromModel(*batch)}, nil
}

func (s *service) GetBatch(ctx context.Context, batchID uuid.UUID) (*Batch, error) {
	batch, err := s.repo.FindBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order batch")
	}
	out := batchFromModel(*batch)
	return &out, nil
}

func (s *service) ListSessionBatches(ctx context.Context, sessionID uuid.UUID) ([]Batch, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	rows, err := s.repo.ListSessionBatches(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order batches")
	}
	out := make([]Batch, 0, len(rows))
	for _, row := range rows {
		out = append(out, batchFromModel(row))
	}
	return out, nil
}

func (s *service) replay(ctx context.Context, existing models.OrderBatch, req BatchRequest) (*BatchResult, error) {
	if existing.SessionID != req.SessionID {
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key used by another session")
	}
	s.logg.Info(s.logg.WithField(ctx, "batch_id", existing.ID.String()), "order batch replayed for idempotency key")
	return &BatchResult{Batch: batchFromModel(existing), Replayed: true}, nil
}

type batchStamp struct {
	RestaurantID uuid.UUID
	TableNumber  int
}

// validateBatch checks that every line belongs to the batch session, restaurant
// and table and that its total matches unit price times quantity.
func validateBatch(req BatchRequest) (batchStamp, error) {
	if req.SessionID == uuid.Nil {
		return batchStamp{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(req.Lines) == 0 {
		return batchStamp{}, pkgerrors.Warning(WarningCartEmpty, "order batch has no lines")
	}
	stamp := batchStamp{RestaurantID: req.Lines[0].RestaurantID, TableNumber: req.Lines[0].TableNumber}
	if stamp.RestaurantID == uuid.Nil {
		return batchStamp{}, pkgerrors.Warning(WarningRestaurantMissing, "restaurant id is required")
	}
	for i, line := range req.Lines {
		problem := ""
		switch {
		case line.SessionID != req.SessionID:
			problem = "belongs to another session"
		case line.RestaurantID != stamp.RestaurantID:
			problem = "belongs to another restaurant"
		case line.TableNumber < 1 || line.TableNumber != stamp.TableNumber:
			problem = "has an invalid table number"
		case line.ItemID == uuid.Nil:
			problem = "is missing its item id"
		case line.Quantity < 1:
			problem = "has a quantity below 1"
		case line.UnitPrice.IsNegative():
			problem = "has a negative unit price"
		case !line.Total.Equal(pricing.LineTotal(line)):
			problem = "total does not match unit price times quantity"
		}
		if problem != "" {
			return batchStamp{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d %s", i, problem)).
				WithDetails(map[string]any{"line": i})
		}
	}
	return stamp, nil
}

func buildBatch(req BatchRequest, stamp batchStamp) *models.OrderBatch {
	summary := pricing.Summarize(req.Lines)
	batch := &models.OrderBatch{
		ID:           uuid.New(),
		SessionID:    req.SessionID,
		RestaurantID: stamp.RestaurantID,
		TableNumber:  stamp.TableNumber,
		Status:       enums.OrderBatchStatusSubmitted,
		LineCount:    len(req.Lines),
		ItemCount:    summary.ItemCount,
		Total:        summary.Total,
		SubmittedBy:  req.SubmittedBy,
		Lines:        make([]models.OrderLine, 0, len(req.Lines)),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		batch.IdempotencyKey = &key
	}
	for i, line := range req.Lines {
		batch.Lines = append(batch.Lines, models.OrderLine{
			ID:             uuid.New(),
			BatchID:        batch.ID,
			SessionID:      line.SessionID,
			RestaurantID:   line.RestaurantID,
			ItemID:         line.ItemID,
			Position:       i,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			Total:          line.Total,
			Customisations: line.Customisations,
			AdditionalNote: line.AdditionalNote,
			TableNumber:    line.TableNumber,
		})
	}
	return batch
}

func submittedEvent(batch models.OrderBatch) payloads.OrderBatchSubmittedEvent {
	lines := make([]payloads.OrderBatchLine, 0, len(batch.Lines))
	for _, line := range batch.Lines {
		lines = append(lines, payloads.OrderBatchLine{
			LineID:         line.ID,
			ItemID:         line.ItemID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			Total:          line.Total,
			Customisations: line.Customisations,
			AdditionalNote: line.AdditionalNote,
		})
	}
	return payloads.OrderBatchSubmittedEvent{
		BatchID:      batch.ID,
		SessionID:    batch.SessionID,
		RestaurantID: batch.RestaurantID,
		TableNumber:  batch.TableNumber,
		LineCount:    batch.LineCount,
		ItemCount:    batch.ItemCount,
		Total:        batch.Total,
		Lines:        lines,
	}
}

func actorOf(req BatchRequest, stamp batchStamp) *outbox.ActorRef {
	if req.SubmittedBy == nil {
		return nil
	}
	restaurantID := stamp.RestaurantID
	return &outbox.ActorRef{StaffID: *req.SubmittedBy, RestaurantID: &restaurantID}
}
