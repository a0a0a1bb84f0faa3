package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"
	"onversed_backend/internal/validator"
	"onversed_backend/pkg/apperrors"
	"onversed_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const itemID = "6f1c7f0e-3b8a-4b53-9d6b-0c7f4f1f2a11"

type fakeItemService struct {
	services.ItemService
	gotReq   *dto.CreateItemRequest
	gotFiles []dto.FileUpload
	err      error
}

func (s *fakeItemService) CreateItem(_ context.Context, _ *gorm.DB, caller *models.Profile, req *dto.CreateItemRequest, files []dto.FileUpload) (*models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.gotReq, s.gotFiles = req, files
	return &models.Item{SKU: req.SKU, Name: req.Name, CompanyID: caller.CompanyID}, nil
}

func (s *fakeItemService) GetItem(context.Context, *gorm.DB, *models.Profile, string) (*models.Item, error) {
	return nil, apperrors.ErrNotFound(nil, "item")
}

type fakeCollectionService struct {
	services.CollectionService
	gotCover *dto.FileUpload
	called   bool
}

func (s *fakeCollectionService) CreateCollection(_ context.Context, _ *gorm.DB, _ *models.Profile, req *dto.CreateCollectionRequest, cover *dto.FileUpload) (*models.Collection, error) {
	s.called, s.gotCover = true, cover
	return &models.Collection{Name: req.Name}, nil
}

// testRouter - gin с подставленными БД, пользователем и профилем
func testRouter(profile *models.Profile, register func(rg *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
		c.Set(string(contextkeys.UserContextKey), &models.User{Email: "a@b.c"})
		if profile != nil {
			c.Set(string(contextkeys.ProfileContextKey), profile)
		}
		c.Next()
	})
	register(r.Group("/api/v1"))
	return r
}

func multipartBody(t *testing.T, data string, parts ...string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if data != "" {
		require.NoError(t, w.WriteField("data", data))
	}
	for _, part := range parts {
		fw, err := w.CreateFormFile(part, part+".pdf")
		require.NoError(t, err)
		_, err = io.WriteString(fw, "content")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func errorCode(t *testing.T, body []byte) apperrors.ErrorCode {
	var resp struct {
		Error apperrors.AppError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error.Code
}

func TestCreateItemPassesFilesByPartName(t *testing.T) {
	svc := &fakeItemService{}
	h := NewItemHandler(NewBaseHandler(validator.New()), svc)
	r := testRouter(&models.Profile{CompanyID: "c1"}, h.RegisterRoutes)

	body, contentType := multipartBody(t, `{"sku":"SKU-1","name":"Jacket"}`, "logos", "drawing")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, svc.gotFiles, 2)
	// части отсортированы по имени
	assert.Equal(t, "drawing", svc.gotFiles[0].Type)
	assert.Equal(t, "logos", svc.gotFiles[1].Type)
	assert.Equal(t, "SKU-1", svc.gotReq.SKU)
}

func TestCreateItemWithoutDataField(t *testing.T) {
	h := NewItemHandler(NewBaseHandler(validator.New()), &fakeItemService{})
	r := testRouter(&models.Profile{CompanyID: "c1"}, h.RegisterRoutes)

	body, contentType := multipartBody(t, "", "drawing")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeValidationFailed, errorCode(t, w.Body.Bytes()))
}

func TestCreateItemValidatesData(t *testing.T) {
	h := NewItemHandler(NewBaseHandler(validator.New()), &fakeItemService{})
	r := testRouter(&models.Profile{CompanyID: "c1"}, h.RegisterRoutes)

	body, contentType := multipartBody(t, `{"name":"Jacket"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sku")
}

func TestItemRoutesRequireProfile(t *testing.T) {
	h := NewItemHandler(NewBaseHandler(validator.New()), &fakeItemService{})
	r := testRouter(nil, h.RegisterRoutes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/"+itemID, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetItemRejectsMalformedID(t *testing.T) {
	h := NewItemHandler(NewBaseHandler(validator.New()), &fakeItemService{})
	r := testRouter(&models.Profile{CompanyID: "c1"}, h.RegisterRoutes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/"+itemID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCollectionCoverParts(t *testing.T) {
	tests := []struct {
		name      string
		parts     []string
		status    int
		wantCover bool
	}{
		{"no cover", nil, http.StatusCreated, false},
		{"single image", []string{"image"}, http.StatusCreated, true},
		{"two images", []string{"image", "image"}, http.StatusBadRequest, false},
		{"foreign part", []string{"drawing"}, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCollectionService{}
			h := NewCollectionHandler(NewBaseHandler(validator.New()), svc)
			r := testRouter(&models.Profile{CompanyID: "c1"}, h.RegisterRoutes)

			body, contentType := multipartBody(t, `{"name":"Spring"}`, tt.parts...)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/collections", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.status == http.StatusCreated, svc.called)
			assert.Equal(t, tt.wantCover, svc.gotCover != nil)
		})
	}
}

func TestSignUpRejectsWeakPassword(t *testing.T) {
	h := NewAuthHandler(NewBaseHandler(validator.New()), nil, nil, nil)
	r := testRouter(nil, h.RegisterRoutes)

	payload := `{"email":"a@b.com","password":"weak","company_name":"Acme","first_name":"A","last_name":"B"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password")
}
