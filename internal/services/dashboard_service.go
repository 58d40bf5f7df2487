// internal/services/dashboard_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const MonthlySalesWindow = 6

type MonthlySales struct {
	Month string `json:"month"` // YYYY-MM
	Total int64  `json:"total"`
}

// DashboardSnapshot holds the aggregate figures shown on one owner's dashboard.
type DashboardSnapshot struct {
	SoldCount       int64              `json:"sold_count"`
	NotSoldCount    int64              `json:"not_sold_count"`
	SoldTodayCount  int64              `json:"sold_today_count"`
	MonthlySales    []MonthlySales     `json:"monthly_sales"`
	TopProductTypes []ProductTypeUsage `json:"top_product_types"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

type DashboardService struct {
	items        *ItemService
	productTypes *ProductTypeService
	cache        *DashboardCache
	now          func() time.Time
}

func NewDashboardService(items *ItemService, productTypes *ProductTypeService, cache *DashboardCache) *DashboardService {
	return &DashboardService{
		items:        items,
		productTypes: productTypes,
		cache:        cache,
		now:          time.Now,
	}
}

// Snapshot computes the owner's dashboard, serving it from the cache when possible.
// Any failing query fails the whole snapshot.
func (s *DashboardService) Snapshot(ctx context.Context, ownerID uuid.UUID) (*DashboardSnapshot, error) {
	if snapshot, ok := s.cache.Get(ctx, ownerID); ok {
		return snapshot, nil
	}

	now := s.now()
	snapshot := &DashboardSnapshot{GeneratedAt: now}

	var err error
	if snapshot.SoldCount, err = s.items.CountBySoldState(ctx, ownerID, true); err != nil {
		return nil, err
	}
	if snapshot.NotSoldCount, err = s.items.CountBySoldState(ctx, ownerID, false); err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if snapshot.SoldTodayCount, err = s.items.CountSoldBetween(ctx, ownerID, startOfDay, startOfDay.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}

	if snapshot.MonthlySales, err = s.monthlySales(ctx, ownerID, now); err != nil {
		return nil, err
	}

	if snapshot.TopProductTypes, err = s.productTypes.TopUsed(ctx, ownerID, DefaultTopUsedLimit); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, ownerID, snapshot)
	return snapshot, nil
}

// monthlySales counts sales for the last MonthlySalesWindow calendar months,
// oldest first, including months without sales.
func (s *DashboardService) monthlySales(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]MonthlySales, error) {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	sales := make([]MonthlySales, 0, MonthlySalesWindow)
	for i := MonthlySalesWindow - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		total, err := s.items.CountSoldBetween(ctx, ownerID, from, from.AddDate(0, 1, 0))
		if err != nil {
			return nil, err
		}
		sales = append(sales, MonthlySales{
			Month: from.Format("2006-01"),
			Total: total,
		})
	}
	return sales, nil
}
