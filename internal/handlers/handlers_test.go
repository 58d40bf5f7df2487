package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-admin/internal/config"
	"github.com/javajoker/inventory-admin/internal/database"
	"github.com/javajoker/inventory-admin/internal/i18n"
	"github.com/javajoker/inventory-admin/internal/middleware"
	"github.com/javajoker/inventory-admin/internal/models"
	"github.com/javajoker/inventory-admin/internal/services"
	"github.com/javajoker/inventory-admin/internal/utils"
)

type HandlersTestSuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	owner      uuid.UUID
	ownerToken string
	otherToken string
	books      models.ProductType
}

func (suite *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize(i18n.DefaultLang))
	utils.SetJWTSecret("handlers-secret")
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.db = database.NewTestDB(suite.T())
	cfg := &config.Config{
		Storage: config.StorageConfig{
			LocalPath:    suite.T().TempDir(),
			PublicURL:    "http://localhost:8080/uploads",
			MaxImageSize: 1 << 20,
		},
	}

	storage, err := services.NewStorageService(cfg)
	suite.Require().NoError(err)
	itemService := services.NewItemService(suite.db, nil)
	productTypeService := services.NewProductTypeService(suite.db, services.NewMediaService(suite.db, storage), nil, cfg.Storage.MaxImageSize)

	itemHandler := NewItemHandler(itemService)
	productTypeHandler := NewProductTypeHandler(productTypeService)
	dashboardHandler := NewDashboardHandler(services.NewDashboardService(itemService, productTypeService, nil))

	r := gin.New()
	r.Use(middleware.I18nMiddleware())
	r.GET("/health", HealthCheck)
	api := r.Group("/", middleware.AuthRequired())
	api.GET("/dashboard", dashboardHandler.GetDashboard)
	api.GET("/items", itemHandler.GetItems)
	api.POST("/items", itemHandler.CreateItems)
	api.PUT("/items/:id", itemHandler.UpdateItem)
	api.DELETE("/items/:id", itemHandler.DeleteItem)
	api.POST("/items/:id/toggle-sold", itemHandler.ToggleSold)
	api.GET("/product-types", productTypeHandler.GetProductTypes)
	api.POST("/product-types", productTypeHandler.CreateProductType)
	api.PUT("/product-types/:id", productTypeHandler.UpdateProductType)
	api.DELETE("/product-types/:id", productTypeHandler.DeleteProductType)
	suite.router = r

	suite.owner = uuid.New()
	suite.ownerToken, err = utils.GenerateJWT(suite.owner, "owner@example.com", 1)
	suite.Require().NoError(err)
	suite.otherToken, err = utils.GenerateJWT(uuid.New(), "other@example.com", 1)
	suite.Require().NoError(err)

	suite.books = models.ProductType{Name: "books"}
	suite.Require().NoError(suite.db.Create(&suite.books).Error)
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   *struct {
		Code    string                  `json:"code"`
		Message string                  `json:"message"`
		Details []utils.ValidationError `json:"details"`
	} `json:"error"`
}

func (suite *HandlersTestSuite) do(method, path, token string, body interface{}) (int, response) {
	var reader bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&reader).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	return suite.serve(req, token)
}

func (suite *HandlersTestSuite) serve(req *http.Request, token string) (int, response) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func (suite *HandlersTestSuite) createItems(serials ...string) []models.Item {
	inputs := make([]gin.H, len(serials))
	for i, s := range serials {
		inputs[i] = gin.H{"value": s}
	}

	code, resp := suite.do(http.MethodPost, "/items", suite.ownerToken, gin.H{
		"product_type_id": suite.books.ID,
		"serialInputs":    inputs,
	})
	suite.Require().Equal(http.StatusCreated, code)

	var items []models.Item
	suite.Require().NoError(json.Unmarshal(resp.Data, &items))
	return items
}

func multipartBody(fields map[string]string, image []byte) (*bytes.Buffer, string) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if image != nil {
		part, _ := w.CreateFormFile("image", "cover.png")
		_, _ = part.Write(image)
	}
	_ = w.Close()
	return &body, w.FormDataContentType()
}

func pngBytes() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32)))
	return buf.Bytes()
}

func (suite *HandlersTestSuite) TestHealthIsPublic() {
	code, _ := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, code)
}

func (suite *HandlersTestSuite) TestRoutesRequireToken() {
	code, resp := suite.do(http.MethodGet, "/items", "", nil)
	suite.Equal(http.StatusUnauthorized, code)
	suite.False(resp.Success)
}

func (suite *HandlersTestSuite) TestCreateAndListItems() {
	created := suite.createItems("A1", "B2")
	suite.Len(created, 2)

	code, resp := suite.do(http.MethodGet, "/items?search=a1", suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)

	var items []models.Item
	suite.Require().NoError(json.Unmarshal(resp.Data, &items))
	suite.Require().Len(items, 1)
	suite.Equal("A1", items[0].SerialNumber)
	suite.Require().NotNil(items[0].ProductType)
	suite.Equal("books", items[0].ProductType.Name)

	var meta struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
		Filters struct {
			Search  string `json:"search"`
			PerPage int    `json:"perPage"`
		} `json:"filters"`
		ProductTypes []services.ProductTypeOption `json:"product_types"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Meta, &meta))
	suite.Equal(int64(1), meta.Pagination.Total)
	suite.Equal("a1", meta.Filters.Search)
	suite.Equal(utils.DefaultPerPage, meta.Filters.PerPage)
	suite.Equal([]services.ProductTypeOption{{ID: suite.books.ID, Name: "books"}}, meta.ProductTypes)
}

func (suite *HandlersTestSuite) TestListSearchWithoutMatch() {
	suite.createItems("A1")

	code, resp := suite.do(http.MethodGet, "/items?search=zzz", suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.JSONEq(`[]`, string(resp.Data))
}

func (suite *HandlersTestSuite) TestCreateItemsMessage() {
	code, resp := suite.do(http.MethodPost, "/items", suite.ownerToken, gin.H{
		"product_type_id": suite.books.ID,
		"serialInputs":    []gin.H{{"value": "A1"}},
	})
	suite.Equal(http.StatusCreated, code)
	suite.Equal("Item created successfully", resp.Message)
}

func (suite *HandlersTestSuite) TestCreateItemsValidation() {
	code, resp := suite.do(http.MethodPost, "/items", suite.ownerToken, gin.H{
		"product_type_id": suite.books.ID,
		"serialInputs":    []gin.H{{"value": "A1"}, {"value": "A2"}, {"value": " "}},
	})
	suite.Require().Equal(http.StatusUnprocessableEntity, code)
	suite.Require().NotNil(resp.Error)
	suite.Equal("VALIDATION_ERROR", resp.Error.Code)
	suite.Require().Len(resp.Error.Details, 1)
	suite.Equal("serialInputs", resp.Error.Details[0].Field)
	suite.Equal("Serial number #3 is required", resp.Error.Details[0].Message)
}

func (suite *HandlersTestSuite) TestCreateItemsUnknownProductType() {
	code, resp := suite.do(http.MethodPost, "/items", suite.ownerToken, gin.H{
		"product_type_id": uuid.New(),
		"serialInputs":    []gin.H{{"value": "A1"}},
	})
	suite.Require().Equal(http.StatusUnprocessableEntity, code)
	suite.Equal("product_type_id", resp.Error.Details[0].Field)
}

func (suite *HandlersTestSuite) TestToggleSold() {
	item := suite.createItems("A1")[0]
	path := fmt.Sprintf("/items/%s/toggle-sold", item.ID)

	code, resp := suite.do(http.MethodPost, path, suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Item marked as sold", resp.Message)

	code, resp = suite.do(http.MethodPost, path, suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Item marked as unsold", resp.Message)
}

func (suite *HandlersTestSuite) TestUpdateItem() {
	item := suite.createItems("A1")[0]

	code, resp := suite.do(http.MethodPut, "/items/"+item.ID.String(), suite.ownerToken, gin.H{"serial_number": "A1-b"})
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Item updated successfully", resp.Message)

	var updated models.Item
	suite.Require().NoError(json.Unmarshal(resp.Data, &updated))
	suite.Equal("A1-b", updated.SerialNumber)
}

func (suite *HandlersTestSuite) TestOtherUsersItemsAreForbidden() {
	item := suite.createItems("A1")[0]

	code, _ := suite.do(http.MethodPut, "/items/"+item.ID.String(), suite.otherToken, gin.H{"serial_number": "stolen"})
	suite.Equal(http.StatusForbidden, code)

	code, _ = suite.do(http.MethodDelete, "/items/"+item.ID.String(), suite.otherToken, nil)
	suite.Equal(http.StatusForbidden, code)

	code, _ = suite.do(http.MethodPost, "/items/"+item.ID.String()+"/toggle-sold", suite.otherToken, nil)
	suite.Equal(http.StatusForbidden, code)
}

func (suite *HandlersTestSuite) TestMissingAndMalformedItemIDs() {
	code, resp := suite.do(http.MethodDelete, "/items/"+uuid.NewString(), suite.ownerToken, nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Item not found", resp.Error.Message)

	code, resp = suite.do(http.MethodDelete, "/items/not-a-uuid", suite.ownerToken, nil)
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("Invalid item ID", resp.Error.Message)
}

func (suite *HandlersTestSuite) TestDeleteItem() {
	item := suite.createItems("A1")[0]

	code, resp := suite.do(http.MethodDelete, "/items/"+item.ID.String(), suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Item deleted successfully", resp.Message)

	code, _ = suite.do(http.MethodDelete, "/items/"+item.ID.String(), suite.ownerToken, nil)
	suite.Equal(http.StatusNotFound, code)
}

func (suite *HandlersTestSuite) TestCreateProductTypeWithImage() {
	body, contentType := multipartBody(map[string]string{"name": "toys"}, pngBytes())
	req := httptest.NewRequest(http.MethodPost, "/product-types", body)
	req.Header.Set("Content-Type", contentType)

	code, resp := suite.serve(req, suite.ownerToken)
	suite.Require().Equal(http.StatusCreated, code)
	suite.Equal("Product type stored successfully !", resp.Message)

	var pt models.ProductType
	suite.Require().NoError(json.Unmarshal(resp.Data, &pt))
	suite.Equal("toys", pt.Name)
	suite.Contains(pt.Image, "http://localhost:8080/uploads/product_types/")
}

func (suite *HandlersTestSuite) TestCreateProductTypeValidation() {
	body, contentType := multipartBody(map[string]string{"name": ""}, nil)
	req := httptest.NewRequest(http.MethodPost, "/product-types", body)
	req.Header.Set("Content-Type", contentType)

	code, resp := suite.serve(req, suite.ownerToken)
	suite.Require().Equal(http.StatusUnprocessableEntity, code)
	suite.Equal("name", resp.Error.Details[0].Field)
}

func (suite *HandlersTestSuite) TestCreateProductTypeRejectsNonImage() {
	body, contentType := multipartBody(map[string]string{"name": "toys"}, []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/product-types", body)
	req.Header.Set("Content-Type", contentType)

	code, resp := suite.serve(req, suite.ownerToken)
	suite.Require().Equal(http.StatusUnprocessableEntity, code)
	suite.Equal("image", resp.Error.Details[0].Field)
	suite.Equal("Only JPEG and PNG images are accepted", resp.Error.Details[0].Message)
}

func (suite *HandlersTestSuite) TestImageErrorsFollowRequestLanguage() {
	body, contentType := multipartBody(map[string]string{"name": "toys"}, []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/product-types", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")

	code, resp := suite.serve(req, suite.ownerToken)
	suite.Require().Equal(http.StatusUnprocessableEntity, code)
	suite.Require().Len(resp.Error.Details, 1)
	suite.Equal("mimes", resp.Error.Details[0].Tag)
	suite.Equal("僅接受 JPEG 與 PNG 圖片", resp.Error.Details[0].Message)
}

func (suite *HandlersTestSuite) TestUpdateProductType() {
	body, contentType := multipartBody(map[string]string{"name": "novels"}, nil)
	req := httptest.NewRequest(http.MethodPut, "/product-types/"+suite.books.ID.String(), body)
	req.Header.Set("Content-Type", contentType)

	code, resp := suite.serve(req, suite.ownerToken)
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Product type updated successfully !", resp.Message)

	body, contentType = multipartBody(map[string]string{"name": "novels"}, nil)
	req = httptest.NewRequest(http.MethodPut, "/product-types/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", contentType)
	code, resp = suite.serve(req, suite.ownerToken)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("Product type not found", resp.Error.Message)
}

func (suite *HandlersTestSuite) TestListProductTypes() {
	suite.createItems("A1", "A2")

	code, resp := suite.do(http.MethodGet, "/product-types", suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)

	var list []models.ProductType
	suite.Require().NoError(json.Unmarshal(resp.Data, &list))
	suite.Require().Len(list, 1)
	suite.Equal(int64(2), list[0].AvailableItemsCount)
	suite.Empty(list[0].Image)
}

func (suite *HandlersTestSuite) TestDeleteProductType() {
	suite.createItems("A1")

	code, resp := suite.do(http.MethodDelete, "/product-types/"+suite.books.ID.String(), suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal("Product type deleted successfully !", resp.Message)

	code, resp = suite.do(http.MethodGet, "/items", suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.JSONEq(`[]`, string(resp.Data))
}

func (suite *HandlersTestSuite) TestDashboard() {
	items := suite.createItems("A1", "A2", "A3")
	code, _ := suite.do(http.MethodPost, "/items/"+items[0].ID.String()+"/toggle-sold", suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)

	code, resp := suite.do(http.MethodGet, "/dashboard", suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, code)

	var data struct {
		Stats  services.DashboardSnapshot `json:"stats"`
		Charts map[string]Chart           `json:"charts"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Data, &data))
	suite.Equal(int64(1), data.Stats.SoldCount)
	suite.Equal(int64(2), data.Stats.NotSoldCount)
	suite.Equal(int64(1), data.Stats.SoldTodayCount)
	suite.Len(data.Stats.MonthlySales, services.MonthlySalesWindow)

	soldVsNotSold := data.Charts["sold_vs_not_sold"]
	suite.Equal([]string{"Sold", "Not Sold"}, soldVsNotSold.Labels)
	suite.Equal([]int64{1, 2}, soldVsNotSold.Datasets[0].Data)

	distribution := data.Charts["product_type_distribution"]
	suite.Equal([]string{"books"}, distribution.Labels)
	suite.Equal([]int64{3}, distribution.Datasets[0].Data)

	monthly := data.Charts["monthly_sales"]
	suite.Len(monthly.Labels, services.MonthlySalesWindow)
	suite.Equal(int64(1), monthly.Datasets[0].Data[services.MonthlySalesWindow-1])
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
