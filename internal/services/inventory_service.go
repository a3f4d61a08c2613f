package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSKUTaken         = errors.New("a product with this SKU already exists in the organization")
)

// InventoryService owns org-scoped products and categories.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) CreateCategory(orgID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	category := models.Category{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           req.Name,
		Position:       req.Position,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *InventoryService) ListCategories(orgID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.
		Where("organization_id = ?", orgID).
		Order("position ASC, created_at ASC").
		Find(&categories).Error
	return categories, err
}

func (s *InventoryService) UpdateCategory(orgID, categoryID uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND organization_id = ?", categoryID, orgID).First(&category).Error; err != nil {
		return nil, ErrCategoryNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return &category, nil
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *InventoryService) DeleteCategory(orgID, categoryID uuid.UUID) error {
	result := s.db.Where("id = ? AND organization_id = ?", categoryID, orgID).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	// Products keep existing without a category.
	return s.db.Model(&models.Product{}).
		Where("organization_id = ? AND category_id = ?", orgID, categoryID).
		Update("category_id", nil).Error
}

func (s *InventoryService) CreateProduct(orgID uuid.UUID, req *dto.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.SKU == "" {
		return nil, fmt.Errorf("%w: product name and sku are required", ErrInvalidInput)
	}

	var existing models.Product
	if err := s.db.Where("organization_id = ? AND sku = ?", orgID, req.SKU).First(&existing).Error; err == nil {
		return nil, ErrSKUTaken
	}

	product := models.Product{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		SKU:            req.SKU,
		PriceCents:     req.PriceCents,
		Currency:       req.Currency,
		StockQuantity:  req.StockQuantity,
		Active:         true,
	}
	if err := s.db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSKUTaken
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *InventoryService) ListProducts(orgID uuid.UUID, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := s.db.Model(&models.Product{}).Where("organization_id = ?", orgID)
	query.Count(&total)

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *InventoryService) UpdateProduct(orgID, productID uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ? AND organization_id = ?", productID, orgID).First(&product).Error; err != nil {
		return nil, ErrProductNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return &product, nil
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *InventoryService) DeleteProduct(orgID, productID uuid.UUID) error {
	result := s.db.Where("id = ? AND organization_id = ?", productID, orgID).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
