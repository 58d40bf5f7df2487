package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/config"
	"github.com/javajoker/inventory-admin/internal/database"
	"github.com/javajoker/inventory-admin/internal/models"
)

const testPublicURL = "http://localhost:8080/uploads"

// testEnv wires the services against an in-memory database and a local disk in a temp dir.
type testEnv struct {
	db           *gorm.DB
	uploadDir    string
	storage      *StorageService
	media        *MediaService
	items        *ItemService
	productTypes *ProductTypeService
	dashboard    *DashboardService
}

func newTestEnv(t *testing.T, cache *DashboardCache) *testEnv {
	t.Helper()

	db := database.NewTestDB(t)
	uploadDir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			LocalPath:    uploadDir,
			PublicURL:    testPublicURL,
			MaxImageSize: 1 << 20,
		},
	}

	storage, err := NewStorageService(cfg)
	require.NoError(t, err)

	media := NewMediaService(db, storage)
	items := NewItemService(db, cache)
	productTypes := NewProductTypeService(db, media, cache, cfg.Storage.MaxImageSize)

	return &testEnv{
		db:           db,
		uploadDir:    uploadDir,
		storage:      storage,
		media:        media,
		items:        items,
		productTypes: productTypes,
		dashboard:    NewDashboardService(items, productTypes, cache),
	}
}

func (e *testEnv) createProductType(t *testing.T, name string) *models.ProductType {
	t.Helper()
	pt, err := e.productTypes.Create(context.Background(), &CreateProductTypeRequest{Name: name}, nil)
	require.NoError(t, err)
	return pt
}

func (e *testEnv) createItems(t *testing.T, owner, productTypeID uuid.UUID, serials ...string) []models.Item {
	t.Helper()
	items, err := e.items.CreateBatch(context.Background(), owner, productTypeID, serials)
	require.NoError(t, err)
	return items
}

// sellAt marks an item sold at the given time.
func (e *testEnv) sellAt(t *testing.T, owner, itemID uuid.UUID, at time.Time) {
	t.Helper()
	e.items.now = func() time.Time { return at }
	item, err := e.items.ToggleSold(context.Background(), owner, itemID)
	require.NoError(t, err)
	require.True(t, item.IsSold)
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageUpload(t *testing.T, name string) *FileUpload {
	t.Helper()
	return &FileUpload{Name: name, Content: bytes.NewReader(pngImage(t, 64, 48))}
}
