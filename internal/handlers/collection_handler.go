package handlers

import (
	"net/http"

	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type CollectionHandler struct {
	*BaseHandler
	collectionService services.CollectionService
}

func NewCollectionHandler(base *BaseHandler, collectionService services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		BaseHandler:       base,
		collectionService: collectionService,
	}
}

func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	collections := rg.Group("/collections")
	{
		collections.GET("", h.GetCollections)
		collections.GET("/designers", h.GetDesigners)
		collections.GET("/:id", h.GetCollection)
		collections.POST("", h.CreateCollection)
		collections.PUT("/:id", h.UpdateCollection)
	}
}

func (h *CollectionHandler) GetCollections(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var query dto.CatalogFilterRequest
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	collections, err := h.collectionService.GetCollections(c.Request.Context(), h.GetDB(c), profile, query.ToFilter())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collections)
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validateUUIDParam(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	collection, err := h.collectionService.GetCollection(c.Request.Context(), h.GetDB(c), profile, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

func (h *CollectionHandler) GetDesigners(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var query dto.DesignersQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	designers, err := h.collectionService.GetDesigners(c.Request.Context(), h.GetDB(c), profile, query.Name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, designers)
}

// CreateCollection - multipart: data (JSON) + необязательная обложка image
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var req dto.CreateCollectionRequest
	files, ok := h.BindAndValidate_Multipart(c, &req)
	if !ok {
		return
	}
	cover, err := coverFile(files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	collection, err := h.collectionService.CreateCollection(c.Request.Context(), h.GetDB(c), profile, &req, cover)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, collection)
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validateUUIDParam(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateCollectionRequest
	files, ok := h.BindAndValidate_Multipart(c, &req)
	if !ok {
		return
	}
	cover, err := coverFile(files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	collection, err := h.collectionService.UpdateCollection(c.Request.Context(), h.GetDB(c), profile, id, &req, cover)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection)
}

// coverFile: у коллекции только одна часть image
func coverFile(files []dto.FileUpload) (*dto.FileUpload, error) {
	var cover *dto.FileUpload
	for i := range files {
		if files[i].Type != avatarPart || cover != nil {
			return nil, apperrors.ErrUnknownBlobType.WithDetails(map[string]string{"file": files[i].Type})
		}
		cover = &files[i]
	}
	return cover, nil
}
