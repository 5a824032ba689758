package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/cart"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/orders"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/pricing"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/metrics"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/razorpay"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/types"
)

// checkoutLockTTL bounds how long a session's checkout lock can outlive its
// attempt if the process dies mid-flight.
const checkoutLockTTL = 15 * time.Minute

// attemptRetention is how long a terminal attempt stays readable through State
// before it is evicted. Anonymous sessions never come back to clean up after
// themselves, so the map would otherwise grow without bound.
const attemptRetention = time.Hour

type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	KeyID() string
	Currency() string
	DisplayName() string
}

type orderCreator interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderDetailDTO, error)
}

type cartSource interface {
	Get(sessionID string) *cart.Aggregate
	Drop(sessionID string)
}

type lockStore interface {
	AcquireCheckoutLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, sessionID string) error
}

// attempt is one checkout lifecycle for a session. State moves strictly
// forward; terminal states free the slot for a new attempt.
type attempt struct {
	state          enums.CheckoutState
	shipping       types.ShippingDetails
	plan           enums.PaymentPlan
	quote          pricing.Quote
	amountDue      decimal.Decimal
	balanceDue     decimal.Decimal
	gatewayOrderID string
	items          []cart.Item
	confirming     bool
	lockHeld       bool
	startedAt      time.Time
	finishedAt     time.Time
}

// BeginInput starts a checkout attempt.
type BeginInput struct {
	SessionID   string
	Shipping    types.ShippingDetails
	PaymentPlan enums.PaymentPlan
}

// ConfirmInput reports a successful widget payment.
type ConfirmInput struct {
	SessionID         string
	RazorpayOrderID   string
	RazorpayPaymentID string
	Signature         string
}

// Service orchestrates the checkout state machine.
type Service struct {
	mu       sync.Mutex
	attempts map[string]*attempt

	rules   pricing.Rules
	gateway gateway
	orders  orderCreator
	carts   cartSource
	locks   lockStore
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams groups dependencies for the checkout service. Gateway may be
// nil when payments are not configured; Begin then fails with a configuration
// error. Locks may be nil in single-instance deployments.
type ServiceParams struct {
	Rules   pricing.Rules
	Gateway gateway
	Orders  orderCreator
	Carts   cartSource
	Locks   lockStore
	Metrics *metrics.CheckoutMetrics
	Logger  *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order creator is required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart source is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{
		attempts: make(map[string]*attempt),
		rules:    params.Rules,
		gateway:  params.Gateway,
		orders:   params.Orders,
		carts:    params.Carts,
		locks:    params.Locks,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// Quote prices the session's cart without starting an attempt.
func (s *Service) Quote(sessionID string, plan enums.PaymentPlan) (*QuoteDTO, error) {
	if !plan.IsValid() {
		plan = enums.PaymentPlanFullOnline
	}
	agg := s.carts.Get(sessionID)
	quote := s.rules.Price(agg.Lines())
	return &QuoteDTO{
		Subtotal:   quote.Subtotal,
		Shipping:   quote.Shipping,
		Tax:        quote.Tax,
		Total:      quote.Total,
		AmountDue:  s.rules.AmountDue(quote, plan),
		BalanceDue: s.rules.BalanceDue(quote, plan),
	}, nil
}

// Begin validates the cart and shipping details, opens a gateway order for
// the amount due, and parks the attempt awaiting payment.
func (s *Service) Begin(ctx context.Context, input BeginInput) (*SessionDTO, error) {
	ctx = s.logg.WithSessionID(ctx, input.SessionID)

	s.mu.Lock()
	if existing, ok := s.attempts[input.SessionID]; ok && !existing.state.IsTerminal() {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateSubmission, "a checkout attempt is already in progress")
	}
	s.evictStaleLocked()
	current := &attempt{state: enums.CheckoutStateValidating, startedAt: s.now()}
	s.attempts[input.SessionID] = current
	s.mu.Unlock()

	dto, err := s.begin(ctx, input, current)
	if err != nil {
		s.finish(ctx, input.SessionID, current, enums.CheckoutStateFailed, false)
		return nil, err
	}
	return dto, nil
}

func (s *Service) begin(ctx context.Context, input BeginInput, current *attempt) (*SessionDTO, error) {
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "payment gateway is not configured")
	}
	if !input.PaymentPlan.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment plan is invalid")
	}
	if missing := input.Shipping.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping details are incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	items := s.carts.Get(input.SessionID).Snapshot()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if s.locks != nil {
		acquired, err := s.locks.AcquireCheckoutLock(ctx, input.SessionID, checkoutLockTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
		}
		if !acquired {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateSubmission, "a checkout attempt is already in progress")
		}
		s.mu.Lock()
		current.lockHeld = true
		s.mu.Unlock()
	}

	// Price the captured snapshot, never the live cart: the gateway charge and
	// the order items persisted on confirm must come from the same lines.
	quote := s.rules.Price(cart.LinesOf(items))
	amountDue := s.rules.AmountDue(quote, input.PaymentPlan)
	balanceDue := s.rules.BalanceDue(quote, input.PaymentPlan)

	gwOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountMinor: pricing.MinorUnits(amountDue),
		Notes: map[string]any{
			"session_id":   input.SessionID,
			"payment_plan": input.PaymentPlan.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	current.state = enums.CheckoutStateAwaitingPayment
	current.shipping = input.Shipping
	current.plan = input.PaymentPlan
	current.quote = quote
	current.amountDue = amountDue
	current.balanceDue = balanceDue
	current.gatewayOrderID = gwOrder.ID
	current.items = items
	s.mu.Unlock()

	s.metrics.ObserveAmountDue(input.PaymentPlan.String(), amountDue)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"gateway_order_id": gwOrder.ID,
		"amount_due":       amountDue.String(),
	}), "checkout awaiting payment")

	return &SessionDTO{
		KeyID:          s.gateway.KeyID(),
		GatewayOrderID: gwOrder.ID,
		AmountMinor:    pricing.MinorUnits(amountDue),
		Currency:       s.gateway.Currency(),
		Name:           s.gateway.DisplayName(),
		Description:    fmt.Sprintf("Order of %d item(s)", len(items)),
		Prefill: PrefillDTO{
			Name:  fmt.Sprintf("%s %s", input.Shipping.FirstName, input.Shipping.LastName),
			Email: input.Shipping.Email,
			Phone: input.Shipping.Phone,
		},
		PaymentPlan: input.PaymentPlan,
		AmountDue:   amountDue,
		BalanceDue:  balanceDue,
	}, nil
}

// HandleSuccess verifies the payment signature and persists the order
// at most once. A captured payment whose order cannot be recorded is
// escalated for reconciliation instead of being silently retried.
func (s *Service) HandleSuccess(ctx context.Context, input ConfirmInput) (*orders.OrderDetailDTO, error) {
	ctx = s.logg.WithSessionID(ctx, input.SessionID)

	s.mu.Lock()
	current, ok := s.attempts[input.SessionID]
	if !ok || current.state != enums.CheckoutStateAwaitingPayment {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "no checkout attempt is awaiting payment")
	}
	if current.confirming {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateSubmission, "a checkout attempt is already in progress")
	}
	if input.RazorpayOrderID != current.gatewayOrderID {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment does not match the open checkout")
	}
	current.confirming = true
	s.mu.Unlock()

	if s.gateway == nil || !s.gateway.VerifyPaymentSignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.Signature) {
		// No side effects yet, so the attempt stays open: the payment may have
		// captured and a well-formed callback for it can still arrive.
		s.mu.Lock()
		current.confirming = false
		s.mu.Unlock()
		s.logg.Warn(ctx, "payment signature verification failed")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment signature verification failed")
	}

	orderInput := orders.CreateOrderInput{
		SessionID:         input.SessionID,
		Shipping:          current.shipping,
		Items:             toOrderItems(current.items),
		PaymentMethod:     methodFor(current.plan),
		PaymentPlan:       current.plan,
		Subtotal:          current.quote.Subtotal,
		ShippingFee:       current.quote.Shipping,
		Tax:               current.quote.Tax,
		Total:             current.quote.Total.Round(2),
		AmountPaid:        current.amountDue,
		BalanceDue:        current.balanceDue,
		RazorpayOrderID:   &input.RazorpayOrderID,
		RazorpayPaymentID: &input.RazorpayPaymentID,
	}

	detail, err := s.orders.CreateOrder(ctx, orderInput)
	if err != nil {
		// The money moved; the order did not. This must reach a human.
		s.metrics.IncReconciliationFailure()
		s.finish(ctx, input.SessionID, current, enums.CheckoutStateFailed, true)
		escCtx := s.logg.WithFields(ctx, map[string]any{
			"gateway_order_id":   input.RazorpayOrderID,
			"gateway_payment_id": input.RazorpayPaymentID,
			"amount_paid":        current.amountDue.String(),
		})
		s.logg.Error(escCtx, "payment captured but order persistence failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "order could not be recorded").
			WithDetails(map[string]any{"payment_captured": true})
	}

	s.carts.Get(input.SessionID).Clear()
	s.carts.Drop(input.SessionID)
	s.finish(ctx, input.SessionID, current, enums.CheckoutStateSucceeded, true)
	s.logg.Info(s.logg.WithOrderID(ctx, detail.OrderID), "checkout succeeded")
	return detail, nil
}

// HandleDismiss records that the customer closed the payment widget. The
// cart survives untouched so checkout can be retried.
func (s *Service) HandleDismiss(ctx context.Context, sessionID string) error {
	ctx = s.logg.WithSessionID(ctx, sessionID)

	// The transition must land in the same critical section as the guard: a
	// confirm racing in after the guard would otherwise persist an order for
	// an attempt the dismiss has already torn down.
	s.mu.Lock()
	current, ok := s.attempts[sessionID]
	if !ok || current.state != enums.CheckoutStateAwaitingPayment || current.confirming {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "no checkout attempt is awaiting payment")
	}
	current.state = enums.CheckoutStateDismissed
	current.finishedAt = s.now()
	held := current.lockHeld
	current.lockHeld = false
	s.mu.Unlock()

	if held {
		s.releaseLock(ctx, sessionID)
	}
	s.metrics.IncOutcome(enums.CheckoutStateDismissed.String())
	s.logg.Info(ctx, "checkout dismissed")
	return nil
}

// State reports the session's current checkout state.
func (s *Service) State(sessionID string) enums.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.attempts[sessionID]; ok {
		return current.state
	}
	return enums.CheckoutStateIdle
}

// Teardown dismisses every in-flight attempt; called on shutdown so no
// session stays wedged awaiting payment.
func (s *Service) Teardown(ctx context.Context) {
	s.mu.Lock()
	open := 0
	locked := make([]string, 0)
	for sessionID, current := range s.attempts {
		if !current.state.IsTerminal() {
			current.state = enums.CheckoutStateDismissed
			current.finishedAt = s.now()
			open++
			if current.lockHeld {
				current.lockHeld = false
				locked = append(locked, sessionID)
			}
		}
	}
	s.mu.Unlock()

	for _, sessionID := range locked {
		s.releaseLock(ctx, sessionID)
	}
	for i := 0; i < open; i++ {
		s.metrics.IncOutcome(enums.CheckoutStateDismissed.String())
	}
	if open > 0 {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"dismissed": open}), "open checkout attempts dismissed on shutdown")
	}
}

// evictStaleLocked drops terminal attempts past retention. Caller holds s.mu.
func (s *Service) evictStaleLocked() {
	cutoff := s.now().Add(-attemptRetention)
	for sessionID, current := range s.attempts {
		if current.state.IsTerminal() && current.finishedAt.Before(cutoff) {
			delete(s.attempts, sessionID)
		}
	}
}

func (s *Service) finish(ctx context.Context, sessionID string, current *attempt, state enums.CheckoutState, countOutcome bool) {
	s.mu.Lock()
	current.state = state
	current.confirming = false
	current.finishedAt = s.now()
	held := current.lockHeld
	current.lockHeld = false
	s.mu.Unlock()

	if held {
		s.releaseLock(ctx, sessionID)
	}
	if countOutcome {
		s.metrics.IncOutcome(state.String())
	}
}

func (s *Service) releaseLock(ctx context.Context, sessionID string) {
	if s.locks == nil {
		return
	}
	if err := s.locks.ReleaseCheckoutLock(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "failed to release checkout lock")
	}
}

func toOrderItems(items []cart.Item) []orders.OrderItemInput {
	out := make([]orders.OrderItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, orders.OrderItemInput{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			SelectedColor: item.SelectedColor,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
		})
	}
	return out
}

func methodFor(plan enums.PaymentPlan) enums.PaymentMethod {
	if plan == enums.PaymentPlanPartialCOD {
		return enums.PaymentMethodCOD
	}
	return enums.PaymentMethodRazorpay
}
