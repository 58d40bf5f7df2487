// internal/handlers/dashboard.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-admin/internal/i18n"
	"github.com/javajoker/inventory-admin/internal/services"
	"github.com/javajoker/inventory-admin/internal/utils"
)

// Chart colors used by the admin front end.
var (
	soldVsNotSoldColors = []string{"#4CAF50", "#FFC107"}
	monthlySalesColor   = "#2196F3"
	distributionColors  = []string{
		"#1E90FF", "#32CD32", "#FF4500", "#8A2BE2", "#FFD700",
		"#00CED1", "#DC143C", "#FF8C00", "#9932CC", "#2E8B57",
	}
)

// Chart is a chart.js compatible data payload.
type Chart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string      `json:"label"`
	BackgroundColor interface{} `json:"backgroundColor"`
	Data            []int64     `json:"data"`
}

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GET /dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	snapshot, err := h.dashboardService.Snapshot(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err, i18n.KeyItemNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats":  snapshot,
		"charts": buildCharts(snapshot),
	})
}

func buildCharts(snapshot *services.DashboardSnapshot) gin.H {
	monthly := Chart{
		Labels:   make([]string, len(snapshot.MonthlySales)),
		Datasets: []ChartDataset{{Label: "Sales", BackgroundColor: monthlySalesColor, Data: make([]int64, len(snapshot.MonthlySales))}},
	}
	for i, m := range snapshot.MonthlySales {
		monthly.Labels[i] = m.Month
		monthly.Datasets[0].Data[i] = m.Total
	}

	distribution := Chart{
		Labels:   make([]string, len(snapshot.TopProductTypes)),
		Datasets: []ChartDataset{{Label: "Product Types", BackgroundColor: distributionColors, Data: make([]int64, len(snapshot.TopProductTypes))}},
	}
	for i, pt := range snapshot.TopProductTypes {
		distribution.Labels[i] = pt.Name
		distribution.Datasets[0].Data[i] = pt.ItemsCount
	}

	return gin.H{
		"sold_vs_not_sold": Chart{
			Labels: []string{"Sold", "Not Sold"},
			Datasets: []ChartDataset{{
				Label:           "Items",
				BackgroundColor: soldVsNotSoldColors,
				Data:            []int64{snapshot.SoldCount, snapshot.NotSoldCount},
			}},
		},
		"monthly_sales":             monthly,
		"product_type_distribution": distribution,
	}
}
