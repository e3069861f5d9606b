package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ для *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")
	// SessionContextKey - ключ для *session.State текущего запроса
	SessionContextKey = contextKey("session")
)
