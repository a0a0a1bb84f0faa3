package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/middleware"
	"onversed_backend/internal/models"
	"onversed_backend/internal/services/dto"
	"onversed_backend/internal/validator"
	"onversed_backend/pkg/apperrors"
	"onversed_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// multipartMemory - порог, после которого части multipart пишутся во временные файлы
const multipartMemory = 32 << 20

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// ============================================================================
// 2. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidate_Multipart разбирает JSON из поля data в obj и собирает
// файловые части. Имя части - тип файла (front_item, drawing, image ...).
func (h *BaseHandler) BindAndValidate_Multipart(c *gin.Context, obj interface{}) ([]dto.FileUpload, bool) {
	ctx := c.Request.Context()

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		logger.CtxWithError(ctx, "Failed to parse multipart form", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return nil, false
	}
	form := c.Request.MultipartForm

	data := form.Value["data"]
	if len(data) == 0 || data[0] == "" {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"data": string(apperrors.TagRequired)}))
		return nil, false
	}
	if err := json.Unmarshal([]byte(data[0]), obj); err != nil {
		logger.CtxWithError(ctx, "Failed to decode multipart data field", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid data field: "+err.Error()))
		return nil, false
	}
	if !h.validate(c, obj) {
		return nil, false
	}

	return collectFiles(form), true
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// collectFiles: порядок по имени части, затем по порядку в запросе
func collectFiles(form *multipart.Form) []dto.FileUpload {
	names := make([]string, 0, len(form.File))
	for name := range form.File {
		names = append(names, name)
	}
	sort.Strings(names)

	var files []dto.FileUpload
	for _, name := range names {
		for _, fh := range form.File[name] {
			files = append(files, fileUpload(name, fh))
		}
	}
	return files
}

func fileUpload(partName string, fh *multipart.FileHeader) dto.FileUpload {
	return dto.FileUpload{
		Type:        partName,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// ============================================================================
// 3. Ошибки сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 4. Текущий пользователь
// ============================================================================

// CurrentUser - пользователь из AuthGuard
func (h *BaseHandler) CurrentUser(c *gin.Context) (*models.User, bool) {
	user := middleware.GetUser(c)
	if user == nil {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: user not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return nil, false
	}
	return user, true
}

// CurrentProfile - профиль вызывающего; без профиля 403
func (h *BaseHandler) CurrentProfile(c *gin.Context) (*models.Profile, bool) {
	if _, ok := h.CurrentUser(c); !ok {
		return nil, false
	}
	profile := middleware.GetProfile(c)
	if profile == nil {
		apperrors.HandleError(c, apperrors.ErrNoProfile)
		return nil, false
	}
	return profile, true
}

func respondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// validateUUIDParam - id в пути должен быть uuid
func validateUUIDParam(value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return apperrors.NewBadRequestError("Invalid id: " + value)
	}
	return nil
}
