// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	cartdom "digitalstore/internal/domain/cart"
	"digitalstore/internal/domain/common"
	orderdom "digitalstore/internal/domain/order"
	productdom "digitalstore/internal/domain/product"
)

var (
	ErrCheckoutInvalidArgument = errors.New("checkout_usecase: invalid argument")
)

// CheckoutResult carries either the created order or the explicit empty-cart
// marker. An empty cart is a successful no-op, not an error.
type CheckoutResult struct {
	Order     *orderdom.Order
	EmptyCart bool
}

// CheckoutUsecase converts a customer's cart into an immutable order
// snapshot, then clears the cart. The whole conversion is one transaction:
// a failure mid-way leaves neither a partial order nor a cleared cart.
type CheckoutUsecase struct {
	carts    cartdom.Repository
	orders   orderdom.Repository
	products productdom.Repository
	tx       common.TxManager
	clock    Clock
}

func NewCheckoutUsecase(carts cartdom.Repository, orders orderdom.Repository, products productdom.Repository, tx common.TxManager) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		orders:   orders,
		products: products,
		tx:       tx,
		clock:    systemClock{},
	}
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(carts cartdom.Repository, orders orderdom.Repository, products productdom.Repository, tx common.TxManager, clock Clock) *CheckoutUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CheckoutUsecase{carts: carts, orders: orders, products: products, tx: tx, clock: clock}
}

// Checkout snapshots the current cart lines into a new pending order.
// Quantity and unit price are copied by value: later cart mutations or
// product price changes never reach the created order lines, and the engine
// never re-reads a price once the snapshot is taken.
func (uc *CheckoutUsecase) Checkout(ctx context.Context, customerID string) (CheckoutResult, error) {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return CheckoutResult{}, ErrCheckoutInvalidArgument
	}

	var result CheckoutResult
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := uc.carts.GetByCustomerID(ctx, cid)
		if err != nil {
			if errors.Is(err, cartdom.ErrNotFound) {
				// no cart yet means nothing to check out
				result = CheckoutResult{EmptyCart: true}
				return nil
			}
			return err
		}

		lines, err := uc.carts.Lines(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			result = CheckoutResult{EmptyCart: true}
			return nil
		}

		snapshot, err := uc.snapshotLines(ctx, lines)
		if err != nil {
			return err
		}

		o, err := orderdom.New(uuid.NewString(), cid, snapshot, uc.clock.Now())
		if err != nil {
			return err
		}
		created, err := uc.orders.Create(ctx, o)
		if err != nil {
			return err
		}

		if err := uc.carts.ClearLines(ctx, c.ID); err != nil {
			return err
		}

		result = CheckoutResult{Order: &created}
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	if result.Order != nil {
		log.Printf("[checkout_uc] order created customerId=%s orderId=%s lines=%d",
			cid, result.Order.ID, len(result.Order.Lines))
	}
	return result, nil
}

// snapshotLines copies each cart line into an order line, capturing the
// product's current price.
func (uc *CheckoutUsecase) snapshotLines(ctx context.Context, lines []cartdom.Line) ([]orderdom.Line, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]productdom.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]orderdom.Line, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, productdom.ErrNotFound
		}
		out = append(out, orderdom.Line{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
		})
	}
	return out, nil
}
