package repository

import (
	"context"
	"errors"

	"github.com/martin0965432/SmartView/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrPackNotFound    = errors.New("pack not found")
	ErrItemNotFound    = errors.New("item not found")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetAllPacks(ctx context.Context) ([]models.ProductPack, error)
	GetPackByID(ctx context.Context, id string) (*models.ProductPack, error)
	Resolve(ctx context.Context, itemID string) (models.Selection, error)
}

// Catalog implements ProductRepository over the constant ViewSmart table.
// It is built once at startup and never mutated; every getter returns a copy.
type Catalog struct {
	products []models.Product
	packs    []models.ProductPack
}

// NewCatalog builds the ViewSmart catalog. It panics if a pack in the
// table breaks the pricing invariants.
func NewCatalog() *Catalog {
	baston := models.Product{
		ID:          "baston_inteligente",
		Name:        "Bastón Inteligente",
		Description: "Sensores ultrasónicos de alta precisión para detectar obstáculos a nivel del suelo.",
		Price:       decimal.NewFromInt(2499),
		Features: []string{
			"Sensores ultrasónicos de alta precisión",
			"Detección de obstáculos a nivel del suelo",
			"Alertas vibratorias y sonoras",
			"Batería de larga duración (48 horas)",
			"Resistente al agua (IP67)",
		},
	}

	gafas := models.Product{
		ID:          "gafas_inteligentes",
		Name:        "Gafas Inteligentes",
		Description: "Tecnología integrada para detectar obstáculos a altura de cabeza.",
		Price:       decimal.NewFromInt(3999),
		Features: []string{
			"Sensores ultrasónicos integrados",
			"Detección de obstáculos a altura de cabeza",
			"Alertas de audio direccionales",
			"Diseño ligero y ergonómico",
			"Compatible con lentes graduados",
		},
	}

	dije := models.Product{
		ID:          "dije_sensores",
		Name:        "Dije con Sensores",
		Description: "Dispositivo discreto para detección de obstáculos a altura media.",
		Price:       decimal.NewFromInt(1999),
		Features: []string{
			"Sensores ultrasónicos de torso",
			"Detección de obstáculos a altura media",
			"Alertas táctiles suaves",
			"Diseño discreto y elegante",
			"Sincronización automática con otros dispositivos",
		},
	}

	// Every pack includes the bastón
	packs := []models.ProductPack{
		mustPack(models.NewProductPack("pack_vision", "Pack Visión",
			"Cobertura superior e inferior para máxima seguridad.",
			decimal.NewFromInt(5999), baston, gafas)),
		mustPack(models.NewProductPack("pack_esencial", "Pack Esencial",
			"Cobertura inferior y media para movilidad diaria.",
			decimal.NewFromInt(3999), baston, dije)),
		mustPack(models.NewProductPack("pack_completo", "Pack Completo",
			"Sistema integral de 360° para protección total.",
			decimal.NewFromInt(7499), baston, gafas, dije)),
	}

	return NewCatalogFrom([]models.Product{baston, gafas, dije}, packs)
}

// NewCatalogFrom builds a catalog from an arbitrary table
func NewCatalogFrom(products []models.Product, packs []models.ProductPack) *Catalog {
	c := &Catalog{
		products: make([]models.Product, len(products)),
		packs:    make([]models.ProductPack, len(packs)),
	}
	for i, p := range products {
		c.products[i] = copyProduct(p)
	}
	for i, p := range packs {
		c.packs[i] = copyPack(p)
	}
	return c
}

func mustPack(pack models.ProductPack, err error) models.ProductPack {
	if err != nil {
		panic(err)
	}
	return pack
}

// GetAll returns all products in catalog order
func (c *Catalog) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, len(c.products))
	for i, p := range c.products {
		products[i] = copyProduct(p)
	}
	return products, nil
}

// GetByID returns a product by its ID
func (c *Catalog) GetByID(ctx context.Context, id string) (*models.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			product := copyProduct(p)
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// GetAllPacks returns all packs in catalog order
func (c *Catalog) GetAllPacks(ctx context.Context) ([]models.ProductPack, error) {
	packs := make([]models.ProductPack, len(c.packs))
	for i, p := range c.packs {
		packs[i] = copyPack(p)
	}
	return packs, nil
}

// GetPackByID returns a pack by its ID
func (c *Catalog) GetPackByID(ctx context.Context, id string) (*models.ProductPack, error) {
	for _, p := range c.packs {
		if p.ID == id {
			pack := copyPack(p)
			return &pack, nil
		}
	}
	return nil, ErrPackNotFound
}

// Resolve turns a product or pack ID into a Selection
func (c *Catalog) Resolve(ctx context.Context, itemID string) (models.Selection, error) {
	if product, err := c.GetByID(ctx, itemID); err == nil {
		return models.Selection{Product: product}, nil
	}
	if pack, err := c.GetPackByID(ctx, itemID); err == nil {
		return models.Selection{Pack: pack}, nil
	}
	return models.Selection{}, ErrItemNotFound
}

func copyProduct(p models.Product) models.Product {
	p.Features = append([]string(nil), p.Features...)
	return p
}

func copyPack(p models.ProductPack) models.ProductPack {
	products := make([]models.Product, len(p.Products))
	for i, product := range p.Products {
		products[i] = copyProduct(product)
	}
	p.Products = products
	return p
}
