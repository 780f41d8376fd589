// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID         = errors.New("order: invalid id")
	ErrInvalidCustomerID = errors.New("order: invalid customerId")
	ErrInvalidStatus     = errors.New("order: invalid status")
	ErrInvalidLines      = errors.New("order: invalid lines")
	ErrNotFound          = errors.New("order: not found")
	ErrConflict          = errors.New("order: conflict")
)

// Status: "pending" | "processing" | "completed" | "cancelled" | "refunded"
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// Line is one (order, product) snapshot entry. Quantity and unit price are
// copied by value at checkout; later cart or product changes never reach an
// existing order line.
type Line struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order is the immutable checkout snapshot. Only the status transitions after
// creation; order date, customer and lines are fixed.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Status     Status    `json:"status"`
	Lines      []Line    `json:"lines"`
	OrderDate  time.Time `json:"order_date"`
}

// New creates a pending order from snapshot lines. At least one line is
// required; an empty cart never becomes an order.
func New(id, customerID string, lines []Line, orderDate time.Time) (Order, error) {
	o := Order{
		ID:         strings.TrimSpace(id),
		CustomerID: strings.TrimSpace(customerID),
		Status:     StatusPending,
		Lines:      cloneLines(lines),
		OrderDate:  orderDate.UTC(),
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Total sums unit price x quantity over the captured lines.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if !IsValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	if len(o.Lines) == 0 {
		return ErrInvalidLines
	}
	seen := make(map[string]struct{}, len(o.Lines))
	for _, l := range o.Lines {
		if strings.TrimSpace(l.ProductID) == "" || l.Quantity < 1 || l.UnitPrice.IsNegative() {
			return ErrInvalidLines
		}
		if _, ok := seen[l.ProductID]; ok {
			return ErrInvalidLines
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}

func cloneLines(src []Line) []Line {
	if len(src) == 0 {
		return nil
	}
	out := make([]Line, len(src))
	copy(out, src)
	return out
}
