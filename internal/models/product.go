package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency of every price in the catalog
const Currency = "MXN"

var (
	ErrInvalidPack = errors.New("invalid product pack")
)

// Product represents a single assistive device sold by ViewSmart
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Features    []string        `json:"features"`
}

// ProductPack is a bundle of products sold at a fixed discounted price.
// Build it with NewProductPack so the pricing invariants always hold.
type ProductPack struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Products        []Product       `json:"products"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Savings         decimal.Decimal `json:"savings"`
}

// NewProductPack derives the original price and savings from the constituent
// products. It fails unless the pack has at least two products and the
// discounted price is positive and strictly below the original price.
func NewProductPack(id, name, description string, discountedPrice decimal.Decimal, products ...Product) (ProductPack, error) {
	if len(products) < 2 {
		return ProductPack{}, fmt.Errorf("%w: pack %s needs at least 2 products, got %d", ErrInvalidPack, id, len(products))
	}

	original := decimal.Zero
	for _, p := range products {
		original = original.Add(p.Price)
	}

	if !discountedPrice.IsPositive() {
		return ProductPack{}, fmt.Errorf("%w: pack %s discounted price must be positive", ErrInvalidPack, id)
	}
	if !discountedPrice.LessThan(original) {
		return ProductPack{}, fmt.Errorf("%w: pack %s discounted price %s is not below original %s",
			ErrInvalidPack, id, discountedPrice.StringFixed(2), original.StringFixed(2))
	}

	contents := make([]Product, len(products))
	copy(contents, products)

	return ProductPack{
		ID:              id,
		Name:            name,
		Description:     description,
		Products:        contents,
		OriginalPrice:   original,
		DiscountedPrice: discountedPrice,
		Savings:         original.Sub(discountedPrice),
	}, nil
}

// ProductNames returns the names of the products in the pack, in order
func (p ProductPack) ProductNames() []string {
	names := make([]string, len(p.Products))
	for i, product := range p.Products {
		names[i] = product.Name
	}
	return names
}

// Selection is the item a customer chose to buy: exactly one of Product or Pack
type Selection struct {
	Product *Product
	Pack    *ProductPack
}
