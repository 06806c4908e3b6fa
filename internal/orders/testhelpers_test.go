package orders

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/internal/sessions"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testScope() cart.Scope {
	return cart.Scope{RestaurantSlug: "bistro", SessionID: uuid.New(), MenuID: uuid.New()}
}

func pizzaLine(size string, price string, qty int) cart.Line {
	return cart.Line{
		ID:        uuid.MustParse("6f1c1c3e-8a63-4c1b-9a0e-3d3f2f5a0b11"),
		Name:      "Margherita",
		UnitPrice: dec(price),
		Quantity:  qty,
		Customisations: []types.RuleSelection{
			{RuleName: "Size", SelectedOptions: []types.SelectedOption{{OptionName: size, Quantity: 1, PriceModifier: dec("2.00")}}},
		},
	}
}

type stubSessions struct {
	sessions map[uuid.UUID]sessions.Session
	err      error
}

func newStubSessions(list ...sessions.Session) *stubSessions {
	s := &stubSessions{sessions: map[uuid.UUID]sessions.Session{}}
	for _, session := range list {
		s.sessions[session.ID] = session
	}
	return s
}

func (s *stubSessions) FindSession(_ context.Context, id uuid.UUID) (*sessions.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table session not found")
	}
	return &session, nil
}

func (s *stubSessions) CurrentSession(_ context.Context, restaurantID uuid.UUID, tableNumber int) (*sessions.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, session := range s.sessions {
		if session.RestaurantID == restaurantID && session.TableNumber == tableNumber && session.Open() {
			return &session, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table session not found")
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	batches := `
CREATE TABLE IF NOT EXISTS order_batches (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  table_number INTEGER NOT NULL,
  idempotency_key TEXT UNIQUE,
  status TEXT NOT NULL DEFAULT 'submitted',
  line_count INTEGER NOT NULL,
  item_count INTEGER NOT NULL,
  total TEXT NOT NULL,
  submitted_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	lines := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  batch_id TEXT NOT NULL,
  session_id TEXT NOT NULL,
  restaurant_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total TEXT NOT NULL,
  customisations TEXT NOT NULL DEFAULT '[]',
  additional_note TEXT,
  table_number INTEGER NOT NULL,
  created_at DATETIME
);`
	events := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	for _, stmt := range []string{batches, lines, events} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
