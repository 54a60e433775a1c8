package receipt

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMXN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"999.5", "$999.50"},
		{"2499", "$2,499.00"},
		{"6498", "$6,498.00"},
		{"123456.789", "$123,456.79"},
		{"1234567", "$1,234,567.00"},
		{"-499", "-$499.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMXN(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatProductsList(t *testing.T) {
	assert.Equal(t, "• Bastón Inteligente", FormatProductsList([]string{"Bastón Inteligente"}))
	assert.Equal(t, "• A\n• B\n• C", FormatProductsList([]string{"A", "B", "C"}))
	assert.Equal(t, "", FormatProductsList(nil))
}

func TestBuildTemplateParams_Pack(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	params := BuildTemplateParams(testTicket(), loc)

	assert.Equal(t, "ana@example.com", params.ToEmail)
	assert.Equal(t, "Ana López", params.ToName)
	assert.Equal(t, "VS-1234561234", params.OrderID)
	// 18:07 UTC is 12:07 in Mexico City (UTC-6, no DST since 2022)
	assert.Equal(t, "05/03/2026 12:07", params.OrderDate)
	assert.Equal(t, "Pack Visión", params.ItemName)
	assert.Equal(t, "• Bastón Inteligente\n• Gafas Inteligentes", params.ProductsList)
	assert.Equal(t, "$6,498.00", params.Subtotal)
	assert.Equal(t, "-$499.00", params.Discount)
	assert.Equal(t, "$5,999.00", params.Total)
	assert.Equal(t, "Av. Corregidora 26, Ciudad del Carmen", params.ShippingAddress)
	assert.Equal(t, "+52 938 123 4567", params.CustomerPhone)
}

func TestBuildTemplateParams_NoDiscount(t *testing.T) {
	ticket := testTicket()
	ticket.Discount = decimal.Zero
	ticket.Subtotal = decimal.NewFromInt(2499)
	ticket.Total = decimal.NewFromInt(2499)

	params := BuildTemplateParams(ticket, nil)

	assert.Equal(t, "N/A", params.Discount)
	assert.Equal(t, "$2,499.00", params.Subtotal)
	assert.Equal(t, "05/03/2026 18:07", params.OrderDate)
}
