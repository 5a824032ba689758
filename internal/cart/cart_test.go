package cart

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func testItem(productID uuid.UUID, color *string, price string, qty int) Item {
	return Item{
		ProductID:     productID,
		Name:          "Walnut Lounge Chair",
		SelectedColor: color,
		UnitPrice:     decimal.RequireFromString(price),
		Quantity:      qty,
	}
}

func TestAddItemMergesByProductAndColor(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(nil)
	productID := uuid.New()

	if err := agg.AddItem(testItem(productID, strPtr("Walnut"), "349", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := agg.AddItem(testItem(productID, strPtr("Walnut"), "349", 2)); err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if err := agg.AddItem(testItem(productID, strPtr("Natural"), "349", 1)); err != nil {
		t.Fatalf("other color add failed: %v", err)
	}

	items := agg.Snapshot()
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}
	if items[1].Quantity != 1 {
		t.Fatalf("expected separate color line quantity 1, got %d", items[1].Quantity)
	}
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(nil)

	err := agg.AddItem(testItem(uuid.Nil, nil, "10", 1))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil product, got %v", err)
	}

	err = agg.AddItem(testItem(uuid.New(), nil, "10", 0))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	err = agg.AddItem(testItem(uuid.New(), nil, "-1", 1))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(nil)
	productID := uuid.New()
	if err := agg.AddItem(testItem(productID, nil, "100", 2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := agg.UpdateQuantity(productID, nil, 0); err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if !agg.IsEmpty() {
		t.Fatalf("expected cart to be empty after zero-quantity update")
	}

	// updating an absent line to zero is a no-op, not an error
	if err := agg.UpdateQuantity(productID, nil, -1); err != nil {
		t.Fatalf("negative update on absent line should be a no-op: %v", err)
	}

	if err := agg.UpdateQuantity(productID, nil, 5); err == nil {
		t.Fatalf("expected not-found for positive update on absent line")
	}
}

func TestRemoveItemIsColorScoped(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(nil)
	productID := uuid.New()
	if err := agg.AddItem(testItem(productID, strPtr("Walnut"), "349", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := agg.AddItem(testItem(productID, strPtr("Natural"), "349", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	agg.RemoveItem(productID, strPtr("Walnut"))

	items := agg.Snapshot()
	if len(items) != 1 {
		t.Fatalf("expected 1 line after removal, got %d", len(items))
	}
	if items[0].SelectedColor == nil || *items[0].SelectedColor != "Natural" {
		t.Fatalf("wrong line removed")
	}

	// removing an absent line is a no-op
	agg.RemoveItem(uuid.New(), nil)
	if len(agg.Snapshot()) != 1 {
		t.Fatalf("no-op removal changed the cart")
	}
}

func TestClearEmitsSingleEvent(t *testing.T) {
	t.Parallel()

	var events []Event
	agg := NewAggregate(func(e Event) { events = append(events, e) })

	if err := agg.AddItem(testItem(uuid.New(), nil, "10", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := agg.AddItem(testItem(uuid.New(), nil, "20", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	agg.Clear()
	agg.Clear() // empty clear emits nothing

	if !agg.IsEmpty() {
		t.Fatalf("expected empty cart")
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[2].Action != EventCleared {
		t.Fatalf("expected cleared event, got %s", events[2].Action)
	}
}

func TestConcurrentMutationsKeepTotalsConsistent(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(nil)
	productID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = agg.AddItem(testItem(productID, nil, "10", 1))
		}()
	}
	wg.Wait()

	items := agg.Snapshot()
	if len(items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(items))
	}
	if items[0].Quantity != 50 {
		t.Fatalf("expected quantity 50, got %d", items[0].Quantity)
	}

	lines := agg.Lines()
	if len(lines) != 1 || lines[0].Quantity != 50 {
		t.Fatalf("pricing lines drifted from cart contents")
	}
}

func TestManagerScopesCartsBySession(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)

	a := mgr.Get("sess-a")
	b := mgr.Get("sess-b")
	if a == b {
		t.Fatalf("expected distinct aggregates per session")
	}
	if mgr.Get("sess-a") != a {
		t.Fatalf("expected stable aggregate for a session")
	}

	if err := a.AddItem(testItem(uuid.New(), nil, "10", 1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !b.IsEmpty() {
		t.Fatalf("session carts leaked")
	}

	mgr.Drop("sess-a")
	if mgr.Len() != 1 {
		t.Fatalf("expected one live cart after drop, got %d", mgr.Len())
	}
	if !mgr.Get("sess-a").IsEmpty() {
		t.Fatalf("expected fresh cart after drop")
	}
}

func TestManagerPruneIdleDropsOnlyStaleCarts(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	base := time.Now()
	mgr.now = func() time.Time { return base }

	mgr.Get("sess-stale")
	mgr.Get("sess-live")

	mgr.now = func() time.Time { return base.Add(20 * time.Hour) }
	mgr.Get("sess-live")

	mgr.now = func() time.Time { return base.Add(30 * time.Hour) }
	if pruned := mgr.PruneIdle(24 * time.Hour); pruned != 1 {
		t.Fatalf("expected one pruned cart, got %d", pruned)
	}
	if mgr.Len() != 1 {
		t.Fatalf("expected one live cart after prune, got %d", mgr.Len())
	}

	// A pruned session starts over with a fresh cart on its next touch.
	if !mgr.Get("sess-stale").IsEmpty() {
		t.Fatalf("expected fresh cart for pruned session")
	}
}
