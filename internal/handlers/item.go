// internal/handlers/item.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-admin/internal/i18n"
	"github.com/javajoker/inventory-admin/internal/services"
	"github.com/javajoker/inventory-admin/internal/utils"
)

type ItemHandler struct {
	itemService *services.ItemService
}

func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// GET /items
func (h *ItemHandler) GetItems(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	items, total, err := h.itemService.List(c.Request.Context(), ownerID, params)
	if err != nil {
		respondError(c, err, i18n.KeyItemNotFound)
		return
	}

	productTypes, err := h.itemService.ProductTypeOptions(c.Request.Context())
	if err != nil {
		respondError(c, err, i18n.KeyProductTypeNotFound)
		return
	}

	result := utils.CreatePaginationResult(items, total, params)
	utils.PaginatedResponse(c, result, gin.H{"product_types": productTypes})
}

// POST /items
func (h *ItemHandler) CreateItems(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateItemsRequest
	if !bindValid(c, &req, c.ShouldBindJSON) {
		return
	}

	items, err := h.itemService.CreateBatch(c.Request.Context(), ownerID, req.ProductTypeID, req.SerialNumbers())
	if err != nil {
		respondError(c, err, i18n.KeyProductTypeNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.MessageResponse(c, http.StatusCreated, i18n.T(lang, i18n.KeyItemCreated), items)
}

// PUT /items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item")
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if !bindValid(c, &req, c.ShouldBindJSON) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), ownerID, itemID, &req)
	if err != nil {
		respondError(c, err, i18n.KeyItemNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyItemUpdated), item)
}

// DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), ownerID, itemID); err != nil {
		respondError(c, err, i18n.KeyItemNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyItemDeleted), nil)
}

// POST /items/:id/toggle-sold
func (h *ItemHandler) ToggleSold(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item")
	if !ok {
		return
	}

	item, err := h.itemService.ToggleSold(c.Request.Context(), ownerID, itemID)
	if err != nil {
		respondError(c, err, i18n.KeyItemNotFound)
		return
	}

	key := i18n.KeyItemMarkedUnsold
	if item.IsSold {
		key = i18n.KeyItemMarkedSold
	}
	utils.MessageResponse(c, http.StatusOK, i18n.T(utils.GetLangFromContext(c), key), item)
}
