package handlers

import (
	"net/http"

	"onversed_backend/internal/services"
	"onversed_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TableValueHandler struct {
	*BaseHandler
	tableValueService services.TableValueService
}

func NewTableValueHandler(base *BaseHandler, tableValueService services.TableValueService) *TableValueHandler {
	return &TableValueHandler{
		BaseHandler:       base,
		tableValueService: tableValueService,
	}
}

func (h *TableValueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/table-values", h.GetTableValue)
}

func (h *TableValueHandler) GetTableValue(c *gin.Context) {
	var query dto.TableValueQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	use, err := h.tableValueService.GetTableValue(c.Request.Context(), h.GetDB(c), query.Flags())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, use)
}
