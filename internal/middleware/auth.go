package middleware

import (
	"context"
	"strings"

	"chamaai_backend/internal/logger"
	"chamaai_backend/internal/session"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	UserIDKey    = "userID"
	RoleKey      = "role"
	SessionIDKey = "sessionID"

	authErrorKey = "authError"
)

// RestoreFunc восстанавливает Identity по bearer-токену (AuthService.RestoreSession)
type RestoreFunc func(ctx context.Context, db *gorm.DB, token string) (*session.Identity, error)

// SessionMiddleware заводит session.State на каждый запрос и гидрирует его
// из заголовка Authorization. Запрос без токена или с плохим токеном
// продолжается анонимно; решение о доступе принимает AuthMiddleware.
// Должен стоять после DBMiddleware.
func SessionMiddleware(restore RestoreFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := session.New()
		ctx := session.WithState(c.Request.Context(), state)

		db, _ := c.Get(string(contextkeys.DBContextKey))
		gdb, _ := db.(*gorm.DB)

		token := bearerToken(c.GetHeader("Authorization"))
		if token != "" && gdb == nil {
			logger.CtxError(ctx, "Session hydrate skipped: db not in context")
			token = ""
		}

		restorer := session.RestorerFunc(func(ctx context.Context, token string) (*session.Identity, error) {
			return restore(ctx, gdb, token)
		})
		if err := state.Hydrate(ctx, restorer, token); err != nil {
			logger.CtxDebug(ctx, "Session hydrate failed", "error", err)
			c.Set(authErrorKey, err)
		}

		if identity := state.Identity(); identity != nil {
			ctx = logger.WithUserID(ctx, identity.UserID)
			c.Set(UserIDKey, identity.UserID)
			c.Set(RoleKey, identity.Role)
			c.Set(SessionIDKey, identity.SessionID)
		}
		c.Set(string(contextkeys.SessionContextKey), state)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthMiddleware пропускает только аутентифицированные запросы
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := GetSession(c)
		if state == nil || !state.IsAuthenticated() {
			if v, ok := c.Get(authErrorKey); ok {
				if appErr, ok := apperrors.AsAppError(v.(error)); ok && appErr.HTTPCode < 500 {
					apperrors.HandleError(c, appErr)
					c.Abort()
					return
				}
			}
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireProvider - только для пользователей с записью исполнителя
func RequireProvider() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := GetSession(c)
		var identity *session.Identity
		if state != nil {
			identity = state.Identity()
		}
		if identity == nil || !identity.IsProvider {
			apperrors.HandleError(c, apperrors.ErrNotServiceProvider)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSession возвращает состояние сессии текущего запроса
func GetSession(c *gin.Context) *session.State {
	v, ok := c.Get(string(contextkeys.SessionContextKey))
	if !ok {
		return nil
	}
	state, _ := v.(*session.State)
	return state
}

// GetUserID извлекает ID пользователя из контекста, "" для анонимного запроса
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}
	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
