// internal/handlers/product_type.go
package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-admin/internal/i18n"
	"github.com/javajoker/inventory-admin/internal/services"
	"github.com/javajoker/inventory-admin/internal/utils"
)

type ProductTypeHandler struct {
	productTypeService *services.ProductTypeService
}

func NewProductTypeHandler(productTypeService *services.ProductTypeService) *ProductTypeHandler {
	return &ProductTypeHandler{
		productTypeService: productTypeService,
	}
}

// GET /product-types
func (h *ProductTypeHandler) GetProductTypes(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	productTypes, total, err := h.productTypeService.List(c.Request.Context(), ownerID, params)
	if err != nil {
		respondError(c, err, i18n.KeyProductTypeNotFound)
		return
	}

	result := utils.CreatePaginationResult(productTypes, total, params)
	utils.PaginatedResponse(c, result, nil)
}

// POST /product-types
func (h *ProductTypeHandler) CreateProductType(c *gin.Context) {
	var req services.CreateProductTypeRequest
	if !bindValid(c, &req, c.ShouldBind) {
		return
	}

	image, closeImage, ok := h.imageUpload(c)
	if !ok {
		return
	}
	defer closeImage()

	lang := utils.GetLangFromContext(c)
	productType, err := h.productTypeService.Create(c.Request.Context(), &req, image)
	if err != nil {
		respondError(c, h.productTypeService.LocalizeImageErrors(err, lang), i18n.KeyProductTypeNotFound)
		return
	}

	utils.MessageResponse(c, http.StatusCreated, i18n.T(lang, i18n.KeyProductTypeCreated), productType)
}

// PUT /product-types/:id
func (h *ProductTypeHandler) UpdateProductType(c *gin.Context) {
	id, ok := pathID(c, "product type")
	if !ok {
		return
	}

	var req services.UpdateProductTypeRequest
	if !bindValid(c, &req, c.ShouldBind) {
		return
	}

	image, closeImage, ok := h.imageUpload(c)
	if !ok {
		return
	}
	defer closeImage()

	lang := utils.GetLangFromContext(c)
	productType, err := h.productTypeService.Update(c.Request.Context(), id, &req, image)
	if err != nil {
		respondError(c, h.productTypeService.LocalizeImageErrors(err, lang), i18n.KeyProductTypeNotFound)
		return
	}

	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyProductTypeUpdated), productType)
}

// DELETE /product-types/:id
func (h *ProductTypeHandler) DeleteProductType(c *gin.Context) {
	id, ok := pathID(c, "product type")
	if !ok {
		return
	}

	if err := h.productTypeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, i18n.KeyProductTypeNotFound)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyProductTypeDeleted), nil)
}

// imageUpload opens the optional "image" form file. A request without one
// yields a nil upload.
func (h *ProductTypeHandler) imageUpload(c *gin.Context) (*services.FileUpload, func(), bool) {
	noop := func() {}

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, true
		}
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyFileUploadFailed), err.Error())
		return nil, noop, false
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyFileUploadFailed), err.Error())
		return nil, noop, false
	}

	return &services.FileUpload{Name: header.Filename, Content: file}, closeFile(file), true
}

func closeFile(file multipart.File) func() {
	return func() { _ = file.Close() }
}
