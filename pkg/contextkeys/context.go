package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - *gorm.DB (пул или транзакция) в gin.Context
	DBContextKey = contextKey("db")

	// UserContextKey - аутентифицированный *models.User
	UserContextKey = contextKey("user")

	// ProfileContextKey - текущий *models.Profile пользователя
	ProfileContextKey = contextKey("profile")
)
