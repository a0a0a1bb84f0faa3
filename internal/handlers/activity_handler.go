package handlers

import (
	"net/http"

	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	*BaseHandler
	activityService services.ActivityService
}

func NewActivityHandler(base *BaseHandler, activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler:     base,
		activityService: activityService,
	}
}

func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	activities := rg.Group("/activities")
	{
		activities.GET("/collections/:id", h.GetCollectionActivities)
		activities.GET("/items/:id", h.GetItemActivities)
		activities.POST("", h.CreateActivity)
	}
}

func (h *ActivityHandler) GetCollectionActivities(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validateUUIDParam(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var page dto.PageRequest
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	activities, err := h.activityService.GetCollectionActivities(c.Request.Context(), h.GetDB(c), profile, id, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

func (h *ActivityHandler) GetItemActivities(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validateUUIDParam(id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var page dto.PageRequest
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	activities, err := h.activityService.GetItemActivities(c.Request.Context(), h.GetDB(c), profile, id, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	profile, ok := h.CurrentProfile(c)
	if !ok {
		return
	}

	var req dto.CreateActivityRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	activity, err := h.activityService.CreateActivity(c.Request.Context(), h.GetDB(c), profile, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}
