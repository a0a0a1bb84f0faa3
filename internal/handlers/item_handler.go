package handlers

import (
	"net/http"

	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewItemHandler(base *BaseHandler, itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		itemService: itemService,
	}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("", h.GetItems)
		items.GET("/:id", h.GetItem)
		items.POST("", h.CreateItem)
		items.PUT("/:id", h.UpdateItem)
	}
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var query dto.CatalogFilterRequest
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	items, err := h.itemService.GetItems(c.Request.Context(), h.GetDB(c), profile, query.ToFilter())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validateUUIDParam(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), h.GetDB(c), profile, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateItem - multipart: data (JSON) + файлы, части названы типом файла
func (h *ItemHandler) CreateItem(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	files, ok := h.BindAndValidate_Multipart(c, &req)
	if !ok {
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), h.GetDB(c), profile, &req, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validateUUIDParam(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateItemRequest
	files, ok := h.BindAndValidate_Multipart(c, &req)
	if !ok {
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), h.GetDB(c), profile, id, &req, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
