// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartdom "digitalstore/internal/domain/cart"
	"digitalstore/internal/domain/common"
	productdom "digitalstore/internal/domain/product"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUsecase is the cart manager: it owns the single cart per customer and
// all line mutations. Every mutation is scoped to one customer's cart.
type CartUsecase struct {
	carts    cartdom.Repository
	products productdom.Repository
	tx       common.TxManager
	clock    Clock
}

func NewCartUsecase(carts cartdom.Repository, products productdom.Repository, tx common.TxManager) *CartUsecase {
	return &CartUsecase{
		carts:    carts,
		products: products,
		tx:       tx,
		clock:    systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cartdom.Repository, products productdom.Repository, tx common.TxManager, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{carts: carts, products: products, tx: tx, clock: clock}
}

// GetOrCreate returns the customer's cart, creating an empty one if absent.
// Idempotent: a concurrent create loses to the unique customer constraint
// and re-reads, so a second cart is never created.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, customerID string) (cartdom.Cart, error) {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return cartdom.Cart{}, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByCustomerID(ctx, cid)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, cartdom.ErrNotFound) {
		return cartdom.Cart{}, err
	}

	newCart, err := cartdom.NewCart(uuid.NewString(), cid, uc.clock.Now())
	if err != nil {
		return cartdom.Cart{}, err
	}
	created, err := uc.carts.Create(ctx, newCart)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, cartdom.ErrConflict) {
		// lost the race; the winner's cart is the cart
		return uc.carts.GetByCustomerID(ctx, cid)
	}
	return cartdom.Cart{}, err
}

// ApplyLineAction mutates the (cart, product) line:
//   - increase: +1, creating the line with quantity 1 when absent
//   - reduce:   -1, deleting the line when its quantity was 1
//   - delete:   unconditional removal; absent line is a no-op
//
// An unknown product fails with product.ErrNotFound. The read-modify-write
// runs in one transaction over a locked line row.
func (uc *CartUsecase) ApplyLineAction(ctx context.Context, customerID, productID string, action cartdom.LineAction) error {
	cid := strings.TrimSpace(customerID)
	pid := strings.TrimSpace(productID)
	if cid == "" || pid == "" {
		return ErrCartInvalidArgument
	}
	if !cartdom.IsValidAction(action) {
		return cartdom.ErrInvalidAction
	}

	if _, err := uc.products.GetByID(ctx, pid); err != nil {
		return err
	}

	c, err := uc.GetOrCreate(ctx, cid)
	if err != nil {
		return err
	}

	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		line, err := uc.carts.GetLineForUpdate(ctx, c.ID, pid)
		switch {
		case err == nil:
		case errors.Is(err, cartdom.ErrLineNotFound):
			switch action {
			case cartdom.ActionIncrease:
				l, err := cartdom.NewLine(c.ID, pid, 1)
				if err != nil {
					return err
				}
				return uc.carts.UpsertLine(ctx, l)
			default:
				// reduce/delete on an absent line has nothing to do
				return nil
			}
		default:
			return err
		}

		switch action {
		case cartdom.ActionIncrease:
			line.Quantity++
			return uc.carts.UpsertLine(ctx, line)
		case cartdom.ActionReduce:
			if line.Quantity > 1 {
				line.Quantity--
				return uc.carts.UpsertLine(ctx, line)
			}
			return uc.carts.DeleteLine(ctx, c.ID, pid)
		case cartdom.ActionDelete:
			return uc.carts.DeleteLine(ctx, c.ID, pid)
		}
		return cartdom.ErrInvalidAction
	})
}

// Lines returns the current lines of the customer's cart.
func (uc *CartUsecase) Lines(ctx context.Context, customerID string) ([]cartdom.Line, error) {
	c, err := uc.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return uc.carts.Lines(ctx, c.ID)
}

// TotalPrice sums current product price x quantity over the cart lines.
// It is computed at read time, never cached, so a product price change is
// visible on the next read.
func (uc *CartUsecase) TotalPrice(ctx context.Context, customerID string) (decimal.Decimal, error) {
	lines, err := uc.Lines(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(lines) == 0 {
		return decimal.Zero, nil
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := uc.products.ListByIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	total := decimal.Zero
	for _, l := range lines {
		price, ok := prices[l.ProductID]
		if !ok {
			return decimal.Zero, productdom.ErrNotFound
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total, nil
}

// Clear deletes every line of the customer's cart; the cart row persists.
func (uc *CartUsecase) Clear(ctx context.Context, customerID string) error {
	c, err := uc.GetOrCreate(ctx, customerID)
	if err != nil {
		return err
	}
	return uc.carts.ClearLines(ctx, c.ID)
}
