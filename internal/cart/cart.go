package cart

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/pricing"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
)

// Item is one cart line. Lines merge by (product, selected color); the same
// product in two colors stays as two lines.
type Item struct {
	ProductID     uuid.UUID
	Name          string
	Image         *string
	SelectedColor *string
	UnitPrice     decimal.Decimal
	Quantity      int
}

type lineKey struct {
	productID uuid.UUID
	color     string
}

func keyFor(productID uuid.UUID, color *string) lineKey {
	k := lineKey{productID: productID}
	if color != nil {
		k.color = strings.TrimSpace(*color)
	}
	return k
}

// EventAction identifies a mutation applied to the cart.
type EventAction string

const (
	EventAdded          EventAction = "item_added"
	EventRemoved        EventAction = "item_removed"
	EventQuantityChange EventAction = "quantity_changed"
	EventCleared        EventAction = "cleared"
)

// Event is emitted after each successful mutation.
type Event struct {
	Action        EventAction
	ProductID     uuid.UUID
	SelectedColor *string
	Quantity      int
}

// EventHook receives cart events. Hooks run inside the aggregate lock and
// must not call back into it.
type EventHook func(Event)

// Aggregate is a session's cart. All mutations are serialized through an
// internal mutex so derived totals never drift from the lines.
type Aggregate struct {
	mu    sync.Mutex
	items map[lineKey]*Item
	order []lineKey
	hook  EventHook
}

// NewAggregate builds an empty cart. The hook may be nil.
func NewAggregate(hook EventHook) *Aggregate {
	return &Aggregate{
		items: make(map[lineKey]*Item),
		hook:  hook,
	}
}

// AddItem merges the item into the cart, summing quantities on an existing
// line for the same product and color.
func (a *Aggregate) AddItem(item Item) error {
	if item.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if item.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := keyFor(item.ProductID, item.SelectedColor)
	if existing, ok := a.items[key]; ok {
		existing.Quantity += item.Quantity
		a.emit(Event{Action: EventAdded, ProductID: item.ProductID, SelectedColor: item.SelectedColor, Quantity: existing.Quantity})
		return nil
	}

	line := item
	a.items[key] = &line
	a.order = append(a.order, key)
	a.emit(Event{Action: EventAdded, ProductID: item.ProductID, SelectedColor: item.SelectedColor, Quantity: item.Quantity})
	return nil
}

// RemoveItem drops the line for the given product and color. Removing an
// absent line is a no-op.
func (a *Aggregate) RemoveItem(productID uuid.UUID, selectedColor *string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeLocked(keyFor(productID, selectedColor), productID, selectedColor)
}

// UpdateQuantity sets the line quantity. A quantity of zero or less removes
// the line.
func (a *Aggregate) UpdateQuantity(productID uuid.UUID, selectedColor *string, quantity int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := keyFor(productID, selectedColor)
	if quantity <= 0 {
		a.removeLocked(key, productID, selectedColor)
		return nil
	}

	existing, ok := a.items[key]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	existing.Quantity = quantity
	a.emit(Event{Action: EventQuantityChange, ProductID: productID, SelectedColor: selectedColor, Quantity: quantity})
	return nil
}

// Clear empties the cart.
func (a *Aggregate) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.items) == 0 {
		return
	}
	a.items = make(map[lineKey]*Item)
	a.order = nil
	a.emit(Event{Action: EventCleared})
}

// Snapshot returns a copy of the lines in insertion order.
func (a *Aggregate) Snapshot() []Item {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Item, 0, len(a.order))
	for _, key := range a.order {
		if item, ok := a.items[key]; ok {
			out = append(out, *item)
		}
	}
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (a *Aggregate) IsEmpty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items) == 0
}

// Lines projects the cart into pricing inputs.
func (a *Aggregate) Lines() []pricing.Line {
	return LinesOf(a.Snapshot())
}

// LinesOf converts an item snapshot into pricing lines, so a caller holding a
// snapshot can price exactly those items without re-reading the live cart.
func LinesOf(items []Item) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	return lines
}

func (a *Aggregate) removeLocked(key lineKey, productID uuid.UUID, selectedColor *string) {
	if _, ok := a.items[key]; !ok {
		return
	}
	delete(a.items, key)
	for i, k := range a.order {
		if k == key {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	a.emit(Event{Action: EventRemoved, ProductID: productID, SelectedColor: selectedColor})
}

func (a *Aggregate) emit(event Event) {
	if a.hook != nil {
		a.hook(event)
	}
}
