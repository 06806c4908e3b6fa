package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/tableserve-backend/internal/sessions"
	dbpkg "github.com/angelmondragon/tableserve-backend/pkg/db"
	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type batchFixture struct {
	db      *gorm.DB
	svc     Service
	session sessions.Session
}

func newBatchFixture(t *testing.T) batchFixture {
	t.Helper()
	db := setupOrdersTestDB(t)
	session := sessions.Session{ID: uuid.New(), RestaurantID: uuid.New(), TableNumber: 7, GuestCount: 2, StartedAt: time.Now().UTC()}
	svc, err := NewService(
		NewRepository(db),
		dbpkg.Wrap(db),
		outbox.NewService(outbox.NewRepository(db), testLogger()),
		newStubSessions(session),
		testLogger(),
	)
	require.NoError(t, err)
	return batchFixture{db: db, svc: svc, session: session}
}

func (f batchFixture) request(key string) BatchRequest {
	staff := uuid.New()
	line := func(price string, qty int) OrderLineRequest {
		unit := dec(price)
		return OrderLineRequest{
			SessionID:    f.session.ID,
			ItemID:       uuid.New(),
			Quantity:     qty,
			UnitPrice:    unit,
			Total:        unit.Mul(decimal.NewFromInt(int64(qty))),
			TableNumber:  f.session.TableNumber,
			RestaurantID: f.session.RestaurantID,
		}
	}
	return BatchRequest{
		SessionID:      f.session.ID,
		IdempotencyKey: key,
		SubmittedBy:    &staff,
		Lines:          []OrderLineRequest{line("12.00", 2), line("4.50", 1)},
	}
}

func TestSubmitBatchPersistsBatchAndQueuesEvent(t *testing.T) {
	f := newBatchFixture(t)
	ctx := context.Background()

	result, err := f.svc.SubmitBatch(ctx, f.request("key-a"))
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	assert.Equal(t, 2, result.Batch.LineCount)
	assert.Equal(t, 3, result.Batch.ItemCount)
	assert.True(t, result.Batch.Total.Equal(dec("28.50")))
	assert.Equal(t, enums.OrderBatchStatusSubmitted, result.Batch.Status)

	stored, err := f.svc.GetBatch(ctx, result.Batch.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	assert.True(t, stored.Lines[0].Total.Equal(dec("24")))

	var events []models.OutboxEvent
	require.NoError(t, f.db.Where("aggregate_id = ?", result.Batch.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderBatchSubmitted, events[0].EventType)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(events[0].Payload, &envelope))
	require.NotNil(t, envelope.Actor)
	var payload payloads.OrderBatchSubmittedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, 7, payload.TableNumber)
	assert.Len(t, payload.Lines, 2)
}

func TestSubmitBatchReplaysIdempotencyKey(t *testing.T) {
	f := newBatchFixture(t)
	ctx := context.Background()
	req := f.request("key-b")

	first, err := f.svc.SubmitBatch(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.SubmitBatch(ctx, req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Batch.ID, second.Batch.ID)

	list, err := f.svc.ListSessionBatches(ctx, f.session.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	var count int64
	require.NoError(t, f.db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitBatchRejectsInconsistentLines(t *testing.T) {
	f := newBatchFixture(t)
	ctx := context.Background()

	cases := map[string]func(*BatchRequest){
		"foreign session": func(r *BatchRequest) { r.Lines[1].SessionID = uuid.New() },
		"zero quantity":   func(r *BatchRequest) { r.Lines[0].Quantity = 0 },
		"wrong total":     func(r *BatchRequest) { r.Lines[0].Total = dec("1.00") },
		"missing table":   func(r *BatchRequest) { r.Lines[0].TableNumber = 0; r.Lines[1].TableNumber = 0 },
		"mixed tables":    func(r *BatchRequest) { r.Lines[1].TableNumber = 9 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := f.request("")
			mutate(&req)
			_, err := f.svc.SubmitBatch(ctx, req)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}

	empty := f.request("")
	empty.Lines = nil
	_, err := f.svc.SubmitBatch(ctx, empty)
	assert.Equal(t, WarningCartEmpty, pkgerrors.WarningOf(err))

	var count int64
	require.NoError(t, f.db.Model(&models.OrderBatch{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitBatchChecksSession(t *testing.T) {
	f := newBatchFixture(t)
	ctx := context.Background()

	foreign := f.request("")
	other := uuid.New()
	for i := range foreign.Lines {
		foreign.Lines[i].RestaurantID = other
	}
	_, err := f.svc.SubmitBatch(ctx, foreign)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	ended := time.Now().UTC()
	closed := f.session
	closed.EndedAt = &ended
	svc, err := NewService(NewRepository(f.db), dbpkg.Wrap(f.db), outbox.NewService(outbox.NewRepository(f.db), nil), newStubSessions(closed), testLogger())
	require.NoError(t, err)
	_, err = svc.SubmitBatch(ctx, f.request(""))
	assert.Equal(t, WarningSessionClosed, pkgerrors.WarningOf(err))
}

func TestGetBatchNotFound(t *testing.T) {
	f := newBatchFixture(t)
	_, err := f.svc.GetBatch(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil, nil); err == nil {
		t.Fatal("expected error without dependencies")
	}
}
