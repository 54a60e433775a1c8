package service

import (
	"context"

	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/repository"
)

// ProductService handles business logic for the catalog
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns all individual products in catalog order
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPacks returns all packs in catalog order
func (s *ProductService) ListPacks(ctx context.Context) ([]models.ProductPack, error) {
	return s.repo.GetAllPacks(ctx)
}

// GetPack returns a pack by ID
func (s *ProductService) GetPack(ctx context.Context, id string) (*models.ProductPack, error) {
	return s.repo.GetPackByID(ctx, id)
}
