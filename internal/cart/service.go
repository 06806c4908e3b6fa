package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/internal/pricing"
	"github.com/angelmondragon/tableserve-backend/internal/selection"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service applies ordering-screen actions to a scoped cart.
type Service interface {
	Get(ctx context.Context, scope Scope) (*View, error)
	AddLine(ctx context.Context, scope Scope, input LineInput) (*View, error)
	EditLine(ctx context.Context, scope Scope, lineID uuid.UUID, input LineInput) (*View, error)
	RemoveLine(ctx context.Context, scope Scope, index int) (*View, error)
	Clear(ctx context.Context, scope Scope) error
	Quote(ctx context.Context, scope Scope, input LineInput) (*Quote, error)
}

// ToggleInput is one option action replayed in order while building a line.
type ToggleInput struct {
	Rule     string
	Option   string
	Selected bool
	Quantity int
}

// LineInput describes a line being added or edited.
type LineInput struct {
	ItemID          uuid.UUID
	Toggles         []ToggleInput
	Quantity        int
	AdditionalNotes *string
}

// View is a cart together with its derived summary.
type View struct {
	Cart     Cart
	Summary  pricing.Summary
	Replaced *bool
}

// Quote is the live price of a line that has not been committed.
type Quote struct {
	ItemID           uuid.UUID
	Selections       []types.RuleSelection
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
	Satisfied        bool
	UnsatisfiedRules []string
}

const (
	lockAttempts = 5
	lockBackoff  = 40 * time.Millisecond
)

type service struct {
	catalog catalog.Reader
	store   Store
	locks   Locker
	logg    *logger.Logger
}

// NewService builds a cart service backed by the provided stack. Every write
// holds the scope lock so it cannot interleave with a submission.
func NewService(reader catalog.Reader, store Store, locks Locker, logg *logger.Logger) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if locks == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{catalog: reader, store: store, locks: locks, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, scope Scope) (*View, error) {
	current, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	return viewOf(current), nil
}

func (s *service) AddLine(ctx context.Context, scope Scope, input LineInput) (*View, error) {
	if err := scope.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	item, err := s.orderableItem(ctx, scope, input.ItemID)
	if err != nil {
		return nil, err
	}
	line, err := ComposeLine(*item, replay(item.Customizations, selection.Selections{}, input.Toggles), input.Quantity, input.AdditionalNotes)
	if err != nil {
		return nil, err
	}

	var view *View
	err = s.locked(ctx, scope, func() error {
		current, err := s.load(ctx, scope)
		if err != nil {
			return err
		}
		next := current.AddLine(line)
		if err := s.save(ctx, next); err != nil {
			return err
		}
		view = viewOf(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// EditLine re-seeds the selections from the existing line with lineID, applies
// the toggles and replaces the line. A missing line degrades to an add.
func (s *service) EditLine(ctx context.Context, scope Scope, lineID uuid.UUID, input LineInput) (*View, error) {
	if err := scope.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	itemID := input.ItemID
	if itemID == uuid.Nil {
		itemID = lineID
	}
	item, err := s.orderableItem(ctx, scope, itemID)
	if err != nil {
		return nil, err
	}

	var view *View
	err = s.locked(ctx, scope, func() error {
		current, err := s.load(ctx, scope)
		if err != nil {
			return err
		}
		base := selection.Selections{}
		if idx := current.FindLineIndexByID(lineID); idx >= 0 {
			base = selection.FromRuleSelections(current.Lines[idx].Customisations)
		}
		line, err := ComposeLine(*item, replay(item.Customizations, base, input.Toggles), input.Quantity, input.AdditionalNotes)
		if err != nil {
			return err
		}

		next, replaced := current.ReplaceLine(lineID, line)
		if !replaced {
			s.logg.Warn(s.logg.WithField(ctx, "line_id", lineID.String()), "edited line not found in cart, added as new line")
		}
		if err := s.save(ctx, next); err != nil {
			return err
		}
		view = viewOf(next)
		view.Replaced = &replaced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) RemoveLine(ctx context.Context, scope Scope, index int) (*View, error) {
	if err := scope.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	var view *View
	err := s.locked(ctx, scope, func() error {
		current, err := s.load(ctx, scope)
		if err != nil {
			return err
		}
		next := current.RemoveLineAt(index)
		if len(next.Lines) == len(current.Lines) {
			view = viewOf(current)
			return nil
		}
		if err := s.save(ctx, next); err != nil {
			return err
		}
		view = viewOf(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) Clear(ctx context.Context, scope Scope) error {
	if err := scope.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	return s.locked(ctx, scope, func() error {
		if err := s.store.Delete(ctx, scope); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
}

// Quote prices a draft without requiring it to be complete or touching the cart.
func (s *service) Quote(ctx context.Context, scope Scope, input LineInput) (*Quote, error) {
	if err := scope.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	item, err := s.orderableItem(ctx, scope, input.ItemID)
	if err != nil {
		return nil, err
	}
	sel := replay(item.Customizations, selection.Selections{}, input.Toggles)
	chosen := sel.Ordered(item.Customizations)
	unit := pricing.UnitPrice(*item, chosen)
	qty := input.Quantity
	if qty < 1 {
		qty = 1
	}
	missing := selection.UnsatisfiedRules(item.Customizations, sel)
	return &Quote{
		ItemID:           item.ID,
		Selections:       chosen,
		UnitPrice:        unit,
		LineTotal:        unit.Mul(decimal.NewFromInt(int64(qty))),
		Satisfied:        len(missing) == 0,
		UnsatisfiedRules: missing,
	}, nil
}

func (s *service) load(ctx context.Context, scope Scope) (Cart, error) {
	if err := scope.Validate(); err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	current, err := s.store.Load(ctx, scope)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return current, nil
}

// locked runs fn while holding the scope lock. A briefly held lock is waited
// out; a submission that keeps it longer surfaces as a conflict.
func (s *service) locked(ctx context.Context, scope Scope, fn func() error) error {
	lock := s.locks.For(scope.Key())
	for attempt := 1; ; attempt++ {
		ok, err := lock.Acquire(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire cart lock")
		}
		if ok {
			break
		}
		if attempt == lockAttempts {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart is being submitted, retry shortly")
		}
		timer := time.NewTimer(lockBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "wait for cart lock")
		case <-timer.C:
		}
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "release cart lock failed")
		}
	}()
	return fn()
}

func (s *service) save(ctx context.Context, next Cart) error {
	if err := s.store.Save(ctx, next); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) orderableItem(ctx context.Context, scope Scope, itemID uuid.UUID) (*catalog.Item, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.catalog.FindMenuItem(ctx, scope.MenuID, itemID)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateItem(*item); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "item_id", itemID.String()), "catalog item failed validation", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "menu item is misconfigured").
			WithDetails(map[string]any{"problems": catalog.Problems(err)})
	}
	if !item.IsAvailable {
		return nil, pkgerrors.Warning(WarningItemUnavailable, "menu item is not available")
	}
	return item, nil
}

func replay(rules types.CustomizationRules, base selection.Selections, toggles []ToggleInput) selection.Selections {
	sel := base
	for _, t := range toggles {
		sel = sel.Toggle(rules, t.Rule, t.Option, t.Selected, t.Quantity)
	}
	return sel
}

func viewOf(c Cart) *View {
	return &View{Cart: c, Summary: c.Summary()}
}
