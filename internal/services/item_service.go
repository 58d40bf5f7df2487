// internal/services/item_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/database"
	"github.com/javajoker/inventory-admin/internal/models"
	"github.com/javajoker/inventory-admin/internal/utils"
)

const (
	MaxBatchSize       = 100
	MaxSerialNumberLen = 255
)

// ItemService owns serialized items. Every operation is scoped to the owner id
// passed in by the caller.
type ItemService struct {
	db    *gorm.DB
	cache *DashboardCache
	now   func() time.Time
}

type SerialInput struct {
	Value string `json:"value" validate:"notblank,max=255"`
}

type CreateItemsRequest struct {
	ProductTypeID uuid.UUID     `json:"product_type_id" validate:"required"`
	SerialInputs  []SerialInput `json:"serialInputs" validate:"required,min=1,max=100,dive"`
}

// SerialNumbers flattens the form inputs in their submitted order.
func (r *CreateItemsRequest) SerialNumbers() []string {
	serials := make([]string, len(r.SerialInputs))
	for i, in := range r.SerialInputs {
		serials[i] = in.Value
	}
	return serials
}

// UpdateItemRequest leaves nil fields unchanged.
type UpdateItemRequest struct {
	SerialNumber  *string    `json:"serial_number" validate:"omitempty,notblank,max=255"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`
}

// ProductTypeOption is the compact product type shape used by item forms.
type ProductTypeOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func NewItemService(db *gorm.DB, cache *DashboardCache) *ItemService {
	return &ItemService{
		db:    db,
		cache: cache,
		now:   time.Now,
	}
}

func (s *ItemService) List(ctx context.Context, ownerID uuid.UUID, params utils.PaginationParams) ([]models.Item, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.WithContext(ctx).Model(&models.Item{}).Where("added_by = ?", ownerID)
	query = utils.ApplySearch(query, "serial_number", params.Search).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	items := []models.Item{}
	err := utils.ApplyPagination(query.Preload("ProductType").Order("created_at DESC"), params).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	return items, total, nil
}

// CreateBatch creates one unsold item per non-blank serial number. All rows are
// written in a single transaction.
func (s *ItemService) CreateBatch(ctx context.Context, ownerID, productTypeID uuid.UUID, serials []string) ([]models.Item, error) {
	cleaned, verrs := normalizeSerials(serials)

	exists, err := s.productTypeExists(ctx, productTypeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		verrs = append(verrs, invalidProductType())
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	items := make([]models.Item, len(cleaned))
	for i, serial := range cleaned {
		items[i] = models.Item{
			ProductTypeID: productTypeID,
			AddedBy:       ownerID,
			SerialNumber:  serial,
		}
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create items: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	return items, nil
}

func (s *ItemService) Update(ctx context.Context, ownerID, itemID uuid.UUID, req *UpdateItemRequest) (*models.Item, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	var verrs ValidationErrors

	if req.SerialNumber != nil {
		serial := strings.TrimSpace(*req.SerialNumber)
		switch {
		case serial == "":
			verrs = append(verrs, utils.NewValidationError("serial_number", "required", "Serial number is required"))
		case utf8.RuneCountInString(serial) > MaxSerialNumberLen:
			verrs = append(verrs, utils.NewValidationError("serial_number", "max",
				"Serial number may not be greater than "+strconv.Itoa(MaxSerialNumberLen)+" characters"))
		default:
			updates["serial_number"] = serial
		}
	}

	if req.ProductTypeID != nil && *req.ProductTypeID != item.ProductTypeID {
		exists, err := s.productTypeExists(ctx, *req.ProductTypeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			verrs = append(verrs, invalidProductType())
		} else {
			updates["product_type_id"] = *req.ProductTypeID
		}
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
		s.cache.Invalidate(ctx, ownerID)
	}

	return s.reload(ctx, item.ID)
}

func (s *ItemService) Delete(ctx context.Context, ownerID, itemID uuid.UUID) error {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return err
	}

	// Soft delete
	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	return nil
}

// ToggleSold flips the sold flag, stamping sold_at when the item becomes sold
// and clearing it when it becomes unsold.
func (s *ItemService) ToggleSold(ctx context.Context, ownerID, itemID uuid.UUID) (*models.Item, error) {
	item, err := s.findOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if item.IsSold {
		item.MarkUnsold()
	} else {
		item.MarkSold(s.now())
	}

	var soldAt interface{}
	if item.SoldAt != nil {
		soldAt = *item.SoldAt
	}

	err = s.db.WithContext(ctx).Model(item).Updates(map[string]interface{}{
		"is_sold": item.IsSold,
		"sold_at": soldAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to toggle item: %w", err)
	}

	s.cache.Invalidate(ctx, ownerID)
	return item, nil
}

// ProductTypeOptions lists every product type for the item form selector.
func (s *ItemService) ProductTypeOptions(ctx context.Context) ([]ProductTypeOption, error) {
	var productTypes []models.ProductType
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Order("name ASC").
		Find(&productTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list product types: %w", err)
	}

	options := make([]ProductTypeOption, len(productTypes))
	for i, pt := range productTypes {
		options[i] = ProductTypeOption{ID: pt.ID, Name: pt.Name}
	}
	return options, nil
}

// CountBySoldState counts the owner's items with the given sold flag.
func (s *ItemService) CountBySoldState(ctx context.Context, ownerID uuid.UUID, sold bool) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("added_by = ? AND is_sold = ?", ownerID, sold).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// CountSoldBetween counts the owner's items sold in [from, to).
func (s *ItemService) CountSoldBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("added_by = ? AND is_sold = ? AND sold_at >= ? AND sold_at < ?", ownerID, true, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sold items: %w", err)
	}
	return count, nil
}

// findOwned loads an item and checks it belongs to ownerID before any mutation.
func (s *ItemService) findOwned(ctx context.Context, ownerID, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	if item.AddedBy != ownerID {
		return nil, ErrForbidden
	}

	return &item, nil
}

func (s *ItemService) reload(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).Preload("ProductType").First(&item, "id = ?", itemID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload item: %w", err)
	}
	return &item, nil
}

func (s *ItemService) productTypeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ProductType{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product type: %w", err)
	}
	return count > 0, nil
}

// normalizeSerials trims the serial numbers, drops blank ones and checks the
// remaining batch. Errors name the entry by its submitted position.
func normalizeSerials(serials []string) ([]string, ValidationErrors) {
	var verrs ValidationErrors
	cleaned := make([]string, 0, len(serials))

	for i, raw := range serials {
		serial := strings.TrimSpace(raw)
		if serial == "" {
			continue
		}
		if utf8.RuneCountInString(serial) > MaxSerialNumberLen {
			verrs = append(verrs, utils.NewValidationError("serialInputs", "max",
				utils.IndexedFieldLabel("serialInputs", i)+" may not be greater than "+strconv.Itoa(MaxSerialNumberLen)+" characters"))
			continue
		}
		cleaned = append(cleaned, serial)
	}

	switch {
	case len(cleaned) == 0 && len(verrs) == 0:
		verrs = append(verrs, utils.NewValidationError("serialInputs", "required", "At least one serial number is required"))
	case len(cleaned)+len(verrs) > MaxBatchSize:
		verrs = append(verrs, utils.NewValidationError("serialInputs", "max",
			"Serial numbers may not have more than "+strconv.Itoa(MaxBatchSize)+" entries"))
	}

	return cleaned, verrs
}

func invalidProductType() utils.ValidationError {
	return utils.NewValidationError("product_type_id", "exists", "The selected product type is invalid")
}
