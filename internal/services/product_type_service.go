// internal/services/product_type_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/database"
	"github.com/javajoker/inventory-admin/internal/i18n"
	"github.com/javajoker/inventory-admin/internal/imaging"
	"github.com/javajoker/inventory-admin/internal/models"
	"github.com/javajoker/inventory-admin/internal/utils"
)

const (
	MaxProductTypeNameLen = 255
	DefaultTopUsedLimit   = 10
)

// Image validation failures are reported on ImageField with one of these tags.
const (
	ImageField         = "image"
	ImageTagMax        = "max"
	ImageTagMimes      = "mimes"
	ImageTagDimensions = "dimensions"
)

// ProductTypeService manages the shared product type catalog and its images.
type ProductTypeService struct {
	db           *gorm.DB
	media        *MediaService
	cache        *DashboardCache
	maxImageSize int64
}

type CreateProductTypeRequest struct {
	Name string `form:"name" json:"name" validate:"required,notblank,max=255"`
}

// UpdateProductTypeRequest keeps the current name when Name is empty.
type UpdateProductTypeRequest struct {
	Name string `form:"name" json:"name" validate:"omitempty,notblank,max=255"`
}

// FileUpload is an uploaded file as received from the client.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// ProductTypeUsage is a product type with the number of items one owner filed under it.
type ProductTypeUsage struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ItemsCount int64     `json:"items_count"`
}

func NewProductTypeService(db *gorm.DB, media *MediaService, cache *DashboardCache, maxImageSize int64) *ProductTypeService {
	return &ProductTypeService{
		db:           db,
		media:        media,
		cache:        cache,
		maxImageSize: maxImageSize,
	}
}

// List returns product types newest first. Each one carries the number of the
// owner's unsold items and its image URL.
func (s *ProductTypeService) List(ctx context.Context, ownerID uuid.UUID, params utils.PaginationParams) ([]models.ProductType, int64, error) {
	params = utils.NormalizePagination(params)

	query := s.db.WithContext(ctx).Model(&models.ProductType{})
	query = utils.ApplySearch(query, "product_types.name", params.Search).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count product types: %w", err)
	}

	available := s.db.Model(&models.Item{}).
		Select("COUNT(*)").
		Where("items.product_type_id = product_types.id AND items.is_sold = ? AND items.added_by = ?", false, ownerID)

	productTypes := []models.ProductType{}
	err := utils.ApplyPagination(
		query.Select("product_types.*, (?) AS available_items_count", available).
			Order("product_types.created_at DESC"),
		params,
	).Find(&productTypes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list product types: %w", err)
	}

	if err := s.attachImageURLs(ctx, productTypes); err != nil {
		return nil, 0, err
	}

	return productTypes, total, nil
}

// Create inserts a product type and stores its image, if any, in one transaction.
func (s *ProductTypeService) Create(ctx context.Context, req *CreateProductTypeRequest, image *FileUpload) (*models.ProductType, error) {
	name, verrs := normalizeProductTypeName(req.Name, true)
	img, imgErrs := s.prepareImage(image)
	verrs = append(verrs, imgErrs...)
	if len(verrs) > 0 {
		return nil, verrs
	}

	productType := &models.ProductType{Name: name}
	var stored []models.Media

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(productType).Error; err != nil {
			return err
		}
		if img == nil {
			return nil
		}

		media, err := s.media.Attach(ctx, tx, productType, models.MediaCollectionImages, image.Name, img)
		if err != nil {
			return err
		}
		stored = append(stored, *media)
		return nil
	})
	if err != nil {
		s.media.Purge(ctx, stored)
		return nil, fmt.Errorf("failed to create product type: %w", err)
	}

	s.cache.InvalidateAll(ctx)

	if productType.Image, err = s.media.URLOf(ctx, productType, models.MediaCollectionImages); err != nil {
		return nil, err
	}
	return productType, nil
}

// Update renames a product type and, when an image is supplied, replaces the
// previous one. Objects of the replaced image are deleted after commit.
func (s *ProductTypeService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductTypeRequest, image *FileUpload) (*models.ProductType, error) {
	name, verrs := normalizeProductTypeName(req.Name, false)
	img, imgErrs := s.prepareImage(image)
	verrs = append(verrs, imgErrs...)
	if len(verrs) > 0 {
		return nil, verrs
	}

	var productType models.ProductType
	var stored, cleared []models.Media

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.First(&productType, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if name != "" && name != productType.Name {
			if err := tx.Model(&productType).Update("name", name).Error; err != nil {
				return err
			}
		}

		if img == nil {
			return nil
		}

		var err error
		if cleared, err = s.media.Clear(tx, productType, models.MediaCollectionImages); err != nil {
			return err
		}

		media, err := s.media.Attach(ctx, tx, productType, models.MediaCollectionImages, image.Name, img)
		if err != nil {
			return err
		}
		stored = append(stored, *media)
		return nil
	})
	if err != nil {
		s.media.Purge(ctx, stored)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product type: %w", err)
	}

	s.media.Purge(ctx, cleared)
	s.cache.InvalidateAll(ctx)

	if productType.Image, err = s.media.URLOf(ctx, productType, models.MediaCollectionImages); err != nil {
		return nil, err
	}
	return &productType, nil
}

// Delete soft deletes the product type together with every item filed under
// it, whoever owns them.
func (s *ProductTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var productType models.ProductType
		if err := tx.First(&productType, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&productType).Error; err != nil {
			return err
		}
		return tx.Where("product_type_id = ?", id).Delete(&models.Item{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product type: %w", err)
	}

	s.cache.InvalidateAll(ctx)
	return nil
}

// TopUsed ranks product types by how many items the owner filed under them.
// Product types without items are included so the ranking is always filled.
func (s *ProductTypeService) TopUsed(ctx context.Context, ownerID uuid.UUID, limit int) ([]ProductTypeUsage, error) {
	if limit <= 0 {
		limit = DefaultTopUsedLimit
	}

	itemsCount := s.db.Model(&models.Item{}).
		Select("COUNT(*)").
		Where("items.product_type_id = product_types.id AND items.added_by = ?", ownerID)

	usage := []ProductTypeUsage{}
	err := s.db.WithContext(ctx).Model(&models.ProductType{}).
		Select("product_types.id, product_types.name, (?) AS items_count", itemsCount).
		Order("items_count DESC, product_types.name ASC").
		Limit(limit).
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank product types: %w", err)
	}
	return usage, nil
}

func (s *ProductTypeService) attachImageURLs(ctx context.Context, productTypes []models.ProductType) error {
	if len(productTypes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(productTypes))
	for i, pt := range productTypes {
		ids[i] = pt.ID
	}

	urls, err := s.media.URLsOf(ctx, models.ProductType{}.MediaModelType(), ids, models.MediaCollectionImages)
	if err != nil {
		return err
	}
	for i := range productTypes {
		productTypes[i].Image = urls[productTypes[i].ID]
	}
	return nil
}

// prepareImage validates and normalizes an upload before any transaction starts.
func (s *ProductTypeService) prepareImage(upload *FileUpload) (*imaging.Result, ValidationErrors) {
	if upload == nil || upload.Content == nil {
		return nil, nil
	}

	img, err := imaging.Normalize(upload.Content, s.maxImageSize)
	switch {
	case err == nil:
		return img, nil
	case errors.Is(err, imaging.ErrTooLarge):
		return nil, ValidationErrors{s.imageError(ImageTagMax, i18n.DefaultLang)}
	case errors.Is(err, imaging.ErrTooManyPixels):
		return nil, ValidationErrors{s.imageError(ImageTagDimensions, i18n.DefaultLang)}
	default:
		return nil, ValidationErrors{s.imageError(ImageTagMimes, i18n.DefaultLang)}
	}
}

func (s *ProductTypeService) imageError(tag, lang string) utils.ValidationError {
	var message string
	switch tag {
	case ImageTagMax:
		message = i18n.T(lang, i18n.KeyFileTooLarge, s.maxImageSize/1024)
	case ImageTagDimensions:
		message = i18n.T(lang, i18n.KeyFileDimensions)
	default:
		message = i18n.T(lang, i18n.KeyFileInvalidType)
	}
	return utils.NewValidationError(ImageField, tag, message)
}

// LocalizeImageErrors renders the image messages of a validation error in lang.
// Any other error is returned unchanged.
func (s *ProductTypeService) LocalizeImageErrors(err error, lang string) error {
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	localized := make(ValidationErrors, len(verrs))
	for i, v := range verrs {
		if v.Field == ImageField {
			v = s.imageError(v.Tag, lang)
		}
		localized[i] = v
	}
	return localized
}

func normalizeProductTypeName(raw string, required bool) (string, ValidationErrors) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "" && required:
		return "", ValidationErrors{utils.NewValidationError("name", "required", "Name is required")}
	case utf8.RuneCountInString(name) > MaxProductTypeNameLen:
		return "", ValidationErrors{utils.NewValidationError("name", "max",
			"Name may not be greater than "+strconv.Itoa(MaxProductTypeNameLen)+" characters")}
	}
	return name, nil
}
