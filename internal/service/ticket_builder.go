package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/martin0965432/SmartView/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
)

const orderIDPrefix = "VS-"

// TicketBuilder turns a catalog selection and the checkout form into a
// PurchaseTicket. Its only side effects are reading the clock and the
// random source used for the order ID.
type TicketBuilder struct {
	now  func() time.Time
	intN func(n int) int
}

// NewTicketBuilder creates a builder using the wall clock and math/rand
func NewTicketBuilder() *TicketBuilder {
	return NewTicketBuilderWith(time.Now, rand.Intn)
}

// NewTicketBuilderWith creates a builder with an injected clock and random source
func NewTicketBuilderWith(now func() time.Time, intN func(n int) int) *TicketBuilder {
	return &TicketBuilder{
		now:  now,
		intN: intN,
	}
}

// Build creates the ticket for a single product or a pack.
//
// Product: subtotal = total = price, discount 0.
// Pack: subtotal = original price, discount = savings, total = discounted price.
func (b *TicketBuilder) Build(sel models.Selection, customer models.Customer) (*models.PurchaseTicket, error) {
	customer, err := validateCustomer(customer)
	if err != nil {
		return nil, err
	}

	createdAt := b.now()
	ticket := &models.PurchaseTicket{
		OrderID:       b.orderID(createdAt),
		Customer:      customer,
		PaymentMethod: models.DefaultPaymentMethod,
		CreatedAt:     createdAt,
	}

	switch {
	case sel.Product != nil && sel.Pack != nil:
		return nil, fmt.Errorf("%w: choose either a product or a pack, not both", ErrInvalidSelection)

	case sel.Product != nil:
		ticket.ItemName = sel.Product.Name
		ticket.ItemDescription = sel.Product.Description
		ticket.Products = []string{sel.Product.Name}
		ticket.Subtotal = sel.Product.Price
		ticket.Discount = decimal.Zero
		ticket.Total = sel.Product.Price

	case sel.Pack != nil:
		ticket.ItemName = sel.Pack.Name
		ticket.ItemDescription = sel.Pack.Description
		ticket.Products = sel.Pack.ProductNames()
		ticket.Subtotal = sel.Pack.OriginalPrice
		ticket.Discount = sel.Pack.Savings
		ticket.Total = sel.Pack.OriginalPrice.Sub(sel.Pack.Savings)

	default:
		return nil, fmt.Errorf("%w: no product or pack selected", ErrInvalidSelection)
	}

	return ticket, nil
}

// orderID is "VS-" + the last 6 digits of the unix millisecond timestamp +
// a random number in [1000, 9999]. Two tickets created in the same
// millisecond (mod 10^6) collide with probability 1/9000; nothing checks
// for that.
func (b *TicketBuilder) orderID(at time.Time) string {
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("%s%s%d", orderIDPrefix, millis, 1000+b.intN(9000))
}

func validateCustomer(c models.Customer) (models.Customer, error) {
	c = models.Customer{
		Name:            strings.TrimSpace(c.Name),
		Email:           strings.TrimSpace(c.Email),
		Phone:           strings.TrimSpace(c.Phone),
		ShippingAddress: strings.TrimSpace(c.ShippingAddress),
	}

	switch {
	case c.Name == "":
		return c, fmt.Errorf("%w: customer name is required", ErrInvalidSelection)
	case c.Email == "":
		return c, fmt.Errorf("%w: customer email is required", ErrInvalidSelection)
	case c.Phone == "":
		return c, fmt.Errorf("%w: customer phone is required", ErrInvalidSelection)
	case c.ShippingAddress == "":
		return c, fmt.Errorf("%w: shipping address is required", ErrInvalidSelection)
	}

	return c, nil
}
