// auth.go — JWT middleware для аутентификации и авторизации.
// Токены подписаны общим секретом (HS256 по умолчанию), выпускаются
// внешним сервисом. Claims: id (идентификатор пользователя), roles
// (массив строк), exp. Состояние не переживает запрос: claims
// передаются дальше через контекст.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/bigkaa/gomediafiles/internal/api/errors"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUserID — ключ для id пользователя из JWT в контексте запроса.
	ContextKeyUserID contextKey = "jwt_user_id"
	// ContextKeyRoles — ключ для roles из JWT в контексте запроса.
	ContextKeyRoles contextKey = "jwt_roles"
)

// Claims — структура JWT claims сервиса.
// id обязателен; отсутствие roles трактуется как пустой набор.
type Claims struct {
	jwt.RegisteredClaims
	// UserID — идентификатор пользователя (claim "id")
	UserID int64 `json:"id"`
	// Roles — роли пользователя (claim "roles")
	Roles []string `json:"roles"`
}

// JWTAuth — middleware JWT-аутентификации по общему секрету.
type JWTAuth struct {
	secret []byte
	// methods — допустимые алгоритмы подписи (из конфигурации)
	methods []string
	logger  *slog.Logger
}

// NewJWTAuth создаёт JWT middleware.
// secret — общий секрет с сервисом выпуска токенов, algorithm —
// заявленный алгоритм подписи (HS256/HS384/HS512).
func NewJWTAuth(secret, algorithm string, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		secret:  []byte(secret),
		methods: []string{algorithm},
		logger:  logger.With(slog.String("component", "jwt_auth")),
	}
}

// Middleware возвращает HTTP middleware для JWT-аутентификации.
// Извлекает Bearer token из заголовка Authorization, валидирует подпись
// и срок действия, помещает id и roles в контекст запроса.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, j.keyfunc,
				jwt.WithValidMethods(j.methods),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				j.logger.Debug("JWT валидация не пройдена",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				if errors.Is(err, jwt.ErrTokenExpired) {
					apierrors.Unauthorized(w, "Срок действия токена истёк. Обратитесь за новым токеном")
					return
				}
				apierrors.Unauthorized(w, "Неверный токен")
				return
			}

			if !token.Valid {
				apierrors.Unauthorized(w, "Неверный токен")
				return
			}

			// id обязателен; отсутствие claim'а фатально
			if claims.UserID == 0 {
				apierrors.Unauthorized(w, "Неверный токен")
				return
			}

			// Отсутствие roles — пустой набор, не ошибка
			roles := claims.Roles
			if roles == nil {
				roles = []string{}
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyRoles, roles)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// keyfunc возвращает общий секрет для проверки подписи.
func (j *JWTAuth) keyfunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
	}
	return j.secret, nil
}

// RequireRoles возвращает middleware, проверяющий пересечение ролей
// вызывающего с требуемым набором. Пустой набор или "*" пропускает
// любого аутентифицированного. Должен использоваться ПОСЛЕ Middleware().
func RequireRoles(required ...string) func(http.Handler) http.Handler {
	anyRole := len(required) == 0 || (len(required) == 1 && required[0] == "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if anyRole {
				next.ServeHTTP(w, r)
				return
			}

			roles, ok := r.Context().Value(ContextKeyRoles).([]string)
			if !ok {
				apierrors.AccessDenied(w)
				return
			}

			for _, need := range required {
				for _, have := range roles {
					if need == have {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			apierrors.AccessDenied(w)
		})
	}
}

// UserIDFromContext извлекает id пользователя из контекста запроса.
// Возвращает 0, если id не найден.
func UserIDFromContext(ctx context.Context) int64 {
	userID, _ := ctx.Value(ContextKeyUserID).(int64)
	return userID
}

// RolesFromContext извлекает roles из контекста запроса.
// Возвращает nil, если roles не найдены.
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(ContextKeyRoles).([]string)
	return roles
}
