package orders

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/internal/sessions"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Warning slugs returned by Submit.
const (
	WarningTableNotSelected  = "table_not_selected"
	WarningCartEmpty         = "cart_empty"
	WarningRestaurantMissing = "restaurant_missing"
	WarningSessionClosed     = "session_closed"
)

// AssemblerParams wires the submission assembler.
type AssemblerParams struct {
	Carts    cart.Store
	Tables   tableSelection
	Sessions sessions.Reader
	Orders   BatchSubmitter
	Locks    cart.Locker
	Metrics  *metrics.SubmissionMetrics
	Logger   *logger.Logger
}

// Assembler turns a scoped cart into one order batch and decides when the
// cart and table selection may be cleared.
type Assembler struct {
	carts    cart.Store
	tables   tableSelection
	sessions sessions.Reader
	orders   BatchSubmitter
	locks    cart.Locker
	metrics  *metrics.SubmissionMetrics
	logg     *logger.Logger
}

func NewAssembler(params AssemblerParams) (*Assembler, error) {
	if params.Carts == nil {
		return nil, errors.New("cart store is required")
	}
	if params.Tables == nil {
		return nil, errors.New("table selection is required")
	}
	if params.Sessions == nil {
		return nil, errors.New("session reader is required")
	}
	if params.Orders == nil {
		return nil, errors.New("batch submitter is required")
	}
	if params.Locks == nil {
		return nil, errors.New("submit locker is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Assembler{
		carts:    params.Carts,
		tables:   params.Tables,
		sessions: params.Sessions,
		orders:   params.Orders,
		locks:    params.Locks,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

// Submit sends the cart of in.Scope as a single batch. Preconditions are
// checked before anything leaves the process and each failure is a distinct
// warning. The cart and table selection are cleared only after the batch is
// acknowledged; on failure both are left as they were.
func (a *Assembler) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	started := time.Now()
	result, outcome, err := a.submit(ctx, in)
	a.metrics.Observe(outcome, time.Since(started))
	if err != nil {
		return nil, err
	}
	a.metrics.AddLines(len(result.Lines))
	return result, nil
}

func (a *Assembler) submit(ctx context.Context, in SubmitInput) (*SubmitResult, string, error) {
	if err := in.Scope.Validate(); err != nil {
		return nil, metrics.OutcomeRejected, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	scopeKey := in.Scope.Key()
	ctx = a.logg.WithSessionID(ctx, in.Scope.SessionID.String())

	// Cart edits hold the same lock, so what is read below is what gets sent
	// and cleared.
	lock := a.locks.For(scopeKey)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return nil, metrics.OutcomeFailed, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire submit lock")
	}
	if !acquired {
		return nil, metrics.OutcomeConflict, pkgerrors.New(pkgerrors.CodeConflict, "submission already in flight")
	}
	// Submission runs to completion once started, even if the caller goes away.
	runCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := lock.Release(runCtx); err != nil {
			a.logg.Warn(a.logg.WithField(runCtx, "error", err.Error()), "release submit lock failed")
		}
	}()

	table, err := a.tables.Selected(runCtx, scopeKey)
	if err != nil {
		return nil, metrics.OutcomeFailed, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table selection")
	}
	if table == nil {
		return nil, metrics.OutcomeRejected, pkgerrors.Warning(WarningTableNotSelected, "select a table before submitting")
	}
	current, err := a.carts.Load(runCtx, in.Scope)
	if err != nil {
		return nil, metrics.OutcomeFailed, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if current.IsEmpty() {
		return nil, metrics.OutcomeRejected, pkgerrors.Warning(WarningCartEmpty, "cart is empty")
	}
	if in.RestaurantID == nil || *in.RestaurantID == uuid.Nil {
		return nil, metrics.OutcomeRejected, pkgerrors.Warning(WarningRestaurantMissing, "no restaurant selected")
	}
	restaurantID := *in.RestaurantID
	runCtx = a.logg.WithRestaurantID(runCtx, restaurantID.String())

	session, err := a.sessions.CurrentSession(runCtx, restaurantID, *table)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, metrics.OutcomeRejected, pkgerrors.Warning(WarningSessionClosed, "table has no open session")
		}
		return nil, metrics.OutcomeFailed, err
	}
	if session.ID != in.Scope.SessionID {
		return nil, metrics.OutcomeRejected, pkgerrors.Warning(WarningSessionClosed, "cart belongs to an ended session")
	}

	lines := AssembleLines(current, SessionContext{
		SessionID:    session.ID,
		RestaurantID: restaurantID,
		TableNumber:  session.TableNumber,
	})
	key := in.IdempotencyKey
	if key == "" {
		key = DeriveIdempotencyKey(current, lines)
	}

	ack, err := a.orders.SubmitBatch(runCtx, BatchRequest{
		SessionID:      session.ID,
		IdempotencyKey: key,
		SubmittedBy:    in.StaffID,
		Lines:          lines,
	})
	if err != nil {
		a.logg.Error(a.logg.WithField(runCtx, "line_count", len(lines)), "order batch submission failed", err)
		if typed := pkgerrors.As(err); typed != nil && !pkgerrors.MetadataFor(typed.Code()).Retryable {
			return nil, metrics.OutcomeRejected, typed
		}
		return nil, metrics.OutcomeFailed, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order service unavailable")
	}

	if err := a.carts.Delete(runCtx, in.Scope); err != nil {
		a.logg.Error(runCtx, "clear cart after submission failed", err)
	}
	if err := a.tables.Reset(runCtx, scopeKey); err != nil {
		a.logg.Error(runCtx, "reset table selection after submission failed", err)
	}

	a.logg.Info(a.logg.WithFields(runCtx, map[string]any{
		"batch_id":   ack.Batch.ID.String(),
		"line_count": len(lines),
		"replayed":   ack.Replayed,
	}), "cart submitted")
	return &SubmitResult{Batch: ack.Batch, Replayed: ack.Replayed, Lines: lines}, metrics.OutcomeSubmitted, nil
}
