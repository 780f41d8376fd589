// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	orderdom "digitalstore/internal/domain/order"
	userdom "digitalstore/internal/domain/user"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
)

// OrderUsecase serves order reads and status transitions. Everything else on
// an order is immutable once the checkout engine has written it.
type OrderUsecase struct {
	orders orderdom.Repository
}

func NewOrderUsecase(orders orderdom.Repository) *OrderUsecase {
	return &OrderUsecase{orders: orders}
}

// ListByCustomer returns the principal's own orders, newest first.
func (uc *OrderUsecase) ListByCustomer(ctx context.Context, principal userdom.User) ([]orderdom.Order, error) {
	if strings.TrimSpace(principal.ID) == "" {
		return nil, ErrOrderInvalidArgument
	}
	return uc.orders.ListByCustomerID(ctx, principal.ID)
}

// Get returns the order when it belongs to the principal.
func (uc *OrderUsecase) Get(ctx context.Context, principal userdom.User, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return orderdom.Order{}, err
	}
	if o.CustomerID != principal.ID {
		// hide other customers' orders
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

// UpdateStatus transitions the order's status within the legal enum.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, principal userdom.User, id string, status orderdom.Status) (orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}
	if !orderdom.IsValidStatus(status) {
		return orderdom.Order{}, orderdom.ErrInvalidStatus
	}
	if _, err := uc.Get(ctx, principal, id); err != nil {
		return orderdom.Order{}, err
	}
	return uc.orders.UpdateStatus(ctx, id, status)
}
