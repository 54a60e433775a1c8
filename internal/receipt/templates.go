package receipt

import (
	"strings"
	"time"

	"github.com/martin0965432/SmartView/internal/models"
	"github.com/shopspring/decimal"
)

const (
	orderDateLayout = "02/01/2006 15:04"
	noDiscount      = "N/A"
)

// TemplateParams are the named fields the receipt email template expects.
// All values are pre-formatted strings.
type TemplateParams struct {
	ToEmail         string `json:"to_email"`
	ToName          string `json:"to_name"`
	OrderID         string `json:"order_id"`
	OrderDate       string `json:"order_date"`
	ItemName        string `json:"item_name"`
	ItemDescription string `json:"item_description"`
	ProductsList    string `json:"products_list"`
	Subtotal        string `json:"subtotal"`
	Discount        string `json:"discount"`
	Total           string `json:"total"`
	ShippingAddress string `json:"shipping_address"`
	CustomerPhone   string `json:"customer_phone"`
}

// BuildTemplateParams formats a ticket for the receipt template.
// Dates are rendered in loc; a nil loc means UTC.
func BuildTemplateParams(ticket *models.PurchaseTicket, loc *time.Location) TemplateParams {
	if loc == nil {
		loc = time.UTC
	}

	discount := noDiscount
	if ticket.Discount.IsPositive() {
		discount = "-" + FormatMXN(ticket.Discount)
	}

	return TemplateParams{
		ToEmail:         ticket.Customer.Email,
		ToName:          ticket.Customer.Name,
		OrderID:         ticket.OrderID,
		OrderDate:       ticket.CreatedAt.In(loc).Format(orderDateLayout),
		ItemName:        ticket.ItemName,
		ItemDescription: ticket.ItemDescription,
		ProductsList:    FormatProductsList(ticket.Products),
		Subtotal:        FormatMXN(ticket.Subtotal),
		Discount:        discount,
		Total:           FormatMXN(ticket.Total),
		ShippingAddress: ticket.Customer.ShippingAddress,
		CustomerPhone:   ticket.Customer.Phone,
	}
}

// FormatProductsList renders one bullet per product
func FormatProductsList(products []string) string {
	if len(products) == 0 {
		return ""
	}
	return "• " + strings.Join(products, "\n• ")
}

// FormatMXN formats an amount the way es-MX renders pesos: $2,499.00
func FormatMXN(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	return sign + "$" + groupThousands(whole) + "." + cents
}

// groupThousands inserts comma separators into a string of digits
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var result strings.Builder
	remainder := len(digits) % 3
	if remainder > 0 {
		result.WriteString(digits[:remainder])
		result.WriteString(",")
	}

	for i := remainder; i < len(digits); i += 3 {
		result.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			result.WriteString(",")
		}
	}

	return result.String()
}
