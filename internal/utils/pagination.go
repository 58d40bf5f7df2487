// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PaginationParams struct {
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	Search  string `json:"search"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", strconv.Itoa(DefaultPerPage)))

	return NormalizePagination(PaginationParams{
		Page:    page,
		PerPage: perPage,
		Search:  c.Query("search"),
	})
}

// NormalizePagination clamps page and perPage into their valid ranges.
func NormalizePagination(params PaginationParams) PaginationParams {
	if params.Page < 1 {
		params.Page = 1
	}
	switch {
	case params.PerPage < 1:
		params.PerPage = DefaultPerPage
	case params.PerPage > MaxPerPage:
		params.PerPage = MaxPerPage
	}
	params.Search = strings.TrimSpace(params.Search)
	return params
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	offset := (params.Page - 1) * params.PerPage
	return db.Offset(offset).Limit(params.PerPage)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ApplySearch adds a case-insensitive substring filter on column. LIKE
// wildcards in search match themselves.
func ApplySearch(db *gorm.DB, column, search string) *gorm.DB {
	if search == "" {
		return db
	}
	return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, containsPattern(search))
}

func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(params.PerPage)))

	return PaginationResult{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.PerPage))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
