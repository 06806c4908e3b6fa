package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScope() Scope {
	return Scope{RestaurantSlug: "bistro", SessionID: uuid.New(), MenuID: uuid.New()}
}

func priced(id uuid.UUID, price string, qty int) Line {
	return Line{ID: id, Name: "item", UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestScopeKey(t *testing.T) {
	session := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	menu := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	scope := Scope{RestaurantSlug: "bistro", SessionID: session, MenuID: menu}

	assert.Equal(t, "bistro:11111111-1111-1111-1111-111111111111:22222222-2222-2222-2222-222222222222", scope.Key())
	assert.NoError(t, scope.Validate())
}

func TestScopeValidate(t *testing.T) {
	assert.Error(t, Scope{SessionID: uuid.New(), MenuID: uuid.New()}.Validate())
	assert.Error(t, Scope{RestaurantSlug: "a:b", SessionID: uuid.New(), MenuID: uuid.New()}.Validate())
	assert.Error(t, Scope{RestaurantSlug: "bistro", MenuID: uuid.New()}.Validate())
	assert.Error(t, Scope{RestaurantSlug: "bistro", SessionID: uuid.New()}.Validate())
}

func TestAddLineNeverMerges(t *testing.T) {
	id := uuid.New()
	c := New(testScope()).AddLine(priced(id, "5.00", 1)).AddLine(priced(id, "5.00", 1))

	require.Len(t, c.Lines, 2)
	assert.Equal(t, 2, c.Summary().ItemCount)
}

func TestAddLineDoesNotMutateReceiver(t *testing.T) {
	base := New(testScope()).AddLine(priced(uuid.New(), "1.00", 1))
	_ = base.AddLine(priced(uuid.New(), "2.00", 1))
	assert.Len(t, base.Lines, 1)
}

func TestFindLineIndexByID(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := New(testScope()).AddLine(priced(a, "1.00", 1)).AddLine(priced(b, "2.00", 1)).AddLine(priced(a, "3.00", 1))

	assert.Equal(t, 0, c.FindLineIndexByID(a))
	assert.Equal(t, 1, c.FindLineIndexByID(b))
	assert.Equal(t, -1, c.FindLineIndexByID(uuid.New()))
}

func TestRemoveLineAtOutOfRangeIsNoop(t *testing.T) {
	c := New(testScope()).AddLine(priced(uuid.New(), "1.00", 1))

	assert.Equal(t, c, c.RemoveLineAt(-1))
	assert.Equal(t, c, c.RemoveLineAt(1))
	assert.Equal(t, c.RemoveLineAt(5), c.RemoveLineAt(5).RemoveLineAt(5))
	assert.True(t, c.RemoveLineAt(0).IsEmpty())
}

func TestReplaceLineRemovesThenAppends(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := New(testScope()).AddLine(priced(a, "10.00", 1)).AddLine(priced(b, "4.00", 2))

	next, replaced := c.ReplaceLine(a, priced(a, "12.00", 1))
	require.True(t, replaced)
	require.Len(t, next.Lines, 2)
	assert.Equal(t, b, next.Lines[0].ID)
	assert.Equal(t, a, next.Lines[1].ID)
	assert.Equal(t, "20.00", next.Summary().Total.StringFixed(2))
}

func TestReplaceLineMissingDegradesToAdd(t *testing.T) {
	c := New(testScope()).AddLine(priced(uuid.New(), "10.00", 1))

	next, replaced := c.ReplaceLine(uuid.New(), priced(uuid.New(), "3.00", 1))
	assert.False(t, replaced)
	assert.Len(t, next.Lines, 2)
}

func TestClearKeepsScope(t *testing.T) {
	scope := testScope()
	filled := New(scope).AddLine(priced(uuid.New(), "1.00", 3))
	c := filled.Clear()

	assert.True(t, c.IsEmpty())
	assert.NotEqual(t, filled.DraftID, c.DraftID)
	assert.Equal(t, scope, c.Scope)
	assert.Equal(t, 0, c.Summary().ItemCount)
	assert.True(t, c.Summary().Total.IsZero())
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "37.50", priced(uuid.New(), "12.50", 3).Total().StringFixed(2))
}
