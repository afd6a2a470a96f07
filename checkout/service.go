package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopworks/ecommerce-api/models"
)

const paymentMethod = "stripe"

// Service converts a mutable cart into an immutable priced order, charges
// the gateway, and reconciles the outcome. Checkout and PayOrder are two
// entry points into the same settlement step.
type Service struct {
	store    Store
	gateway  Gateway
	currency string
	now      func() time.Time
}

func NewService(store Store, gateway Gateway, currency string) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{store: store, gateway: gateway, currency: currency, now: time.Now}
}

// Result reports a successful settlement back to the caller.
type Result struct {
	OrderID       uint                 `json:"order_id"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	ChargeID      string               `json:"charge_id"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	ShippingDate  *time.Time           `json:"shipping_date,omitempty"`
}

// settlement controls what the shared settle step does around the charge.
// Checkout carries a cart (cleared on success, stock restored on failure)
// and ships immediately; PayOrder only records the payment outcome.
type settlement struct {
	cartID        uint
	hasCart       bool
	shipOnSuccess bool
}

// Checkout runs the full cart -> order -> payment transition.
//
// Validation failures roll back before anything is persisted. Once the
// pending order is committed, every gateway outcome is recorded: a failed
// charge keeps the order (status failed) and its failed payment for audit,
// restores the debited stock, and leaves the cart intact for retry.
func (s *Service) Checkout(ctx context.Context, userID, cartID uint, token string) (*Result, *Error) {
	var order models.Order
	var amountMinor int64

	err := s.store.Tx(ctx, func(st Store) error {
		cart, err := st.CartForUpdate(ctx, cartID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return newError(KindNotAuthorized, "Invalid cart ID.")
			}
			return wrapError(KindUnexpected, "failed to load cart", err)
		}
		if cart.UserID != userID {
			return newError(KindNotAuthorized, "Invalid cart ID.")
		}
		if cart.Status == models.CartStatusCheckingOut {
			return newError(KindConflict, "a checkout is already in progress for this cart")
		}
		if len(cart.Items) == 0 {
			return newError(KindEmptyCart, "cart is empty")
		}

		lines := make([]Line, 0, len(cart.Items))
		for _, item := range cart.Items {
			product, err := st.ProductForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return newError(KindNotFound, "Product with ID %d does not exist.", item.ProductID)
				}
				return wrapError(KindUnexpected, "failed to load product", err)
			}
			lines = append(lines, Line{Product: *product, Quantity: item.Quantity})
		}

		if verr := ValidateStock(lines); verr != nil {
			return verr
		}
		total := Total(lines)
		minor, aerr := MinorUnits(total)
		if aerr != nil {
			return aerr
		}
		amountMinor = minor

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				ProductID:   l.Product.ID,
				ProductName: l.Product.Name,
				UnitPrice:   l.Product.Price,
				Quantity:    l.Quantity,
			})
		}
		order = models.Order{
			UserID:     userID,
			Items:      items,
			Amount:     total,
			Status:     models.OrderStatusPending,
			TrackingID: uuid.NewString(),
		}
		if err := st.CreateOrder(ctx, &order); err != nil {
			return wrapError(KindUnexpected, "failed to create order", err)
		}

		// Debit stock while the product rows are still locked, so a
		// concurrent checkout cannot oversell.
		for _, l := range lines {
			if err := st.AdjustStock(ctx, l.Product.ID, -l.Quantity); err != nil {
				return wrapError(KindUnexpected, "failed to debit stock", err)
			}
		}

		// Hold the cart until settlement; a second checkout against the
		// same cart fails with KindConflict instead of double-charging.
		if err := st.SetCartStatus(ctx, cartID, models.CartStatusCheckingOut); err != nil {
			return wrapError(KindUnexpected, "failed to hold cart", err)
		}
		return nil
	})
	if err != nil {
		return nil, asError(err)
	}

	return s.settle(ctx, &order, token, amountMinor, settlement{
		cartID:        cartID,
		hasCart:       true,
		shipOnSuccess: true,
	})
}

// PayOrder charges an already-created order. The caller must own the order
// or be staff. It never touches a cart and does not ship on success; it
// only records the payment outcome. Retrying a failed order replaces its
// failed payment row.
func (s *Service) PayOrder(ctx context.Context, userID uint, isStaff bool, orderID uint, token string) (*Result, *Error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindNotFound, "order not found")
		}
		return nil, wrapError(KindUnexpected, "failed to load order", err)
	}
	if order.UserID != userID && !isStaff {
		return nil, newError(KindNotAuthorized, "You do not have permission to perform this action.")
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusFailed {
		return nil, newError(KindConflict, "order is already %s", order.Status)
	}

	amountMinor, aerr := MinorUnits(order.Amount)
	if aerr != nil {
		return nil, aerr
	}
	return s.settle(ctx, order, token, amountMinor, settlement{})
}

func (s *Service) settle(ctx context.Context, order *models.Order, token string, amountMinor int64, opt settlement) (*Result, *Error) {
	charge, chargeErr := s.gateway.Charge(ctx, ChargeRequest{
		AmountMinor: amountMinor,
		Currency:    s.currency,
		Token:       token,
		Description: fmt.Sprintf("Payment for Order #%d", order.ID),
	})
	if chargeErr != nil {
		return nil, s.recordFailure(ctx, order, asError(chargeErr), opt)
	}

	now := s.now()
	payment := models.Payment{
		OrderID:        order.ID,
		UserID:         order.UserID,
		Method:         paymentMethod,
		TransactionRef: charge.ID,
		Status:         models.PaymentStatusSuccess,
		Amount:         order.Amount,
		Detail:         charge.Status,
	}
	txErr := s.store.Tx(ctx, func(st Store) error {
		if err := st.SavePayment(ctx, &payment); err != nil {
			return err
		}
		order.Status = models.OrderStatusPaid
		if opt.shipOnSuccess {
			order.IsShipped = true
			order.ShippingDate = &now
		}
		if err := st.SaveOrder(ctx, order); err != nil {
			return err
		}
		if opt.hasCart {
			if err := st.ClearCart(ctx, opt.cartID); err != nil {
				return err
			}
			if err := st.SetCartStatus(ctx, opt.cartID, models.CartStatusOpen); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		// The provider has charged the card; surface loudly rather than
		// pretending the charge failed.
		return nil, wrapError(KindUnexpected, "charge succeeded but settlement could not be recorded", txErr)
	}

	return &Result{
		OrderID:       order.ID,
		AmountPaid:    order.Amount,
		ChargeID:      charge.ID,
		PaymentStatus: payment.Status,
		ShippingDate:  order.ShippingDate,
	}, nil
}

// recordFailure persists the failed attempt (order kept for audit, payment
// row status failed), restores any stock the checkout path debited, and
// releases the cart without clearing it.
func (s *Service) recordFailure(ctx context.Context, order *models.Order, cause *Error, opt settlement) *Error {
	payment := models.Payment{
		OrderID: order.ID,
		UserID:  order.UserID,
		Method:  paymentMethod,
		Status:  models.PaymentStatusFailed,
		Amount:  order.Amount,
		Detail:  cause.Detail,
	}
	txErr := s.store.Tx(ctx, func(st Store) error {
		if err := st.SavePayment(ctx, &payment); err != nil {
			return err
		}
		order.Status = models.OrderStatusFailed
		if err := st.SaveOrder(ctx, order); err != nil {
			return err
		}
		if opt.hasCart {
			for _, item := range order.Items {
				if err := st.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			if err := st.SetCartStatus(ctx, opt.cartID, models.CartStatusOpen); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return wrapError(KindUnexpected, "failed to record payment failure", txErr)
	}
	return cause
}

func asError(err error) *Error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}
	return wrapError(KindUnexpected, "An unexpected error occurred.", err)
}
