// internal/services/media_service.go
package services

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/imaging"
	"github.com/javajoker/inventory-admin/internal/models"
)

// HasMedia is implemented by models that own media collections.
type HasMedia interface {
	MediaModelType() string
	MediaModelID() uuid.UUID
}

// MediaService attaches stored objects to model collections and resolves their URLs.
type MediaService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewMediaService(db *gorm.DB, storage *StorageService) *MediaService {
	return &MediaService{
		db:      db,
		storage: storage,
	}
}

// Attach stores an image and records it on owner's collection using tx.
// The object is removed again if the row cannot be written.
func (s *MediaService) Attach(ctx context.Context, tx *gorm.DB, owner HasMedia, collection, fileName string, img *imaging.Result) (*models.Media, error) {
	key := s.storage.GenerateKey(path.Join(owner.MediaModelType(), owner.MediaModelID().String()), ".jpg")

	upload, err := s.storage.Put(ctx, key, img.Data, img.MIME)
	if err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	media := &models.Media{
		ModelType:  owner.MediaModelType(),
		ModelID:    owner.MediaModelID(),
		Collection: collection,
		Disk:       upload.Disk,
		Key:        upload.Key,
		FileName:   fileName,
		MimeType:   upload.MimeType,
		Size:       upload.Size,
	}
	if err := tx.Create(media).Error; err != nil {
		s.Purge(ctx, []models.Media{*media})
		return nil, fmt.Errorf("failed to record media: %w", err)
	}

	return media, nil
}

// Clear removes the collection's rows using tx and returns them so the caller
// can purge the stored objects once the transaction commits.
func (s *MediaService) Clear(tx *gorm.DB, owner HasMedia, collection string) ([]models.Media, error) {
	var existing []models.Media
	err := tx.Where("model_type = ? AND model_id = ? AND collection = ?",
		owner.MediaModelType(), owner.MediaModelID(), collection).
		Find(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}
	if len(existing) == 0 {
		return nil, nil
	}

	if err := tx.Unscoped().Delete(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to clear media: %w", err)
	}
	return existing, nil
}

// Purge deletes stored objects. Failures leave orphaned objects behind and are only logged.
func (s *MediaService) Purge(ctx context.Context, media []models.Media) {
	for _, m := range media {
		if err := s.storage.Delete(ctx, m.Disk, m.Key); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"media_id": m.ID,
				"key":      m.Key,
			}).Warn("Failed to delete stored media")
		}
	}
}

// URLOf returns the URL of the first media in the collection, or "" when there is none.
func (s *MediaService) URLOf(ctx context.Context, owner HasMedia, collection string) (string, error) {
	urls, err := s.URLsOf(ctx, owner.MediaModelType(), []uuid.UUID{owner.MediaModelID()}, collection)
	if err != nil {
		return "", err
	}
	return urls[owner.MediaModelID()], nil
}

// URLsOf resolves the first media URL of the collection for many models of one type.
func (s *MediaService) URLsOf(ctx context.Context, modelType string, ids []uuid.UUID, collection string) (map[uuid.UUID]string, error) {
	urls := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return urls, nil
	}

	var media []models.Media
	err := s.db.WithContext(ctx).
		Where("model_type = ? AND collection = ? AND model_id IN ?", modelType, collection, ids).
		Order("created_at ASC").
		Find(&media).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}

	for _, m := range media {
		if _, ok := urls[m.ModelID]; !ok {
			urls[m.ModelID] = s.storage.URL(m.Disk, m.Key)
		}
	}
	return urls, nil
}
