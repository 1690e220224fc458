package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"

// testLogger — логгер, пишущий в никуда.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// signToken подписывает claims секретом testSecret указанным методом.
func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("ошибка подписи токена: %v", err)
	}
	return token
}

// validClaims возвращает claims валидного токена пользователя 42.
func validClaims(roles []string) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 42,
		Roles:  roles,
	}
}

// doAuth прогоняет запрос с заголовком Authorization через middleware
// и возвращает recorder плюс контекстные значения, дошедшие до handler'а.
func doAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, int64, []string) {
	t.Helper()

	auth := NewJWTAuth(testSecret, "HS256", testLogger())

	var gotUserID int64
	var gotRoles []string
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRoles = RolesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/files/photo/all", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec, gotUserID, gotRoles
}

// TestMiddleware_ValidToken проверяет пропуск валидного токена
// и передачу id/roles через контекст.
func TestMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, validClaims([]string{"user"}))

	rec, userID, roles := doAuth(t, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d: %s", rec.Code, rec.Body.String())
	}
	if userID != 42 {
		t.Errorf("user_id: ожидалось 42, получено %d", userID)
	}
	if len(roles) != 1 || roles[0] != "user" {
		t.Errorf("roles: ожидалось [user], получено %v", roles)
	}
}

// TestMiddleware_MissingRoles проверяет, что отсутствие claim roles
// даёт пустой набор, а не отказ.
func TestMiddleware_MissingRoles(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, validClaims(nil))

	rec, _, roles := doAuth(t, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d", rec.Code)
	}
	if roles == nil || len(roles) != 0 {
		t.Errorf("roles: ожидался пустой срез, получено %v", roles)
	}
}

// TestMiddleware_ExpiredToken проверяет отказ по истёкшему токену.
func TestMiddleware_ExpiredToken(t *testing.T) {
	claims := validClaims(nil)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, jwt.SigningMethodHS256, claims)

	rec, _, _ := doAuth(t, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// TestMiddleware_NoExpiration проверяет отказ токену без exp —
// бессрочные токены запрещены.
func TestMiddleware_NoExpiration(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, &Claims{UserID: 42})

	rec, _, _ := doAuth(t, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// TestMiddleware_WrongSecret проверяет отказ токену с чужой подписью.
func TestMiddleware_WrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(nil)).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("ошибка подписи токена: %v", err)
	}

	rec, _, _ := doAuth(t, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// TestMiddleware_MissingUserID проверяет отказ токену без claim id.
func TestMiddleware_MissingUserID(t *testing.T) {
	claims := validClaims(nil)
	claims.UserID = 0
	token := signToken(t, jwt.SigningMethodHS256, claims)

	rec, _, _ := doAuth(t, "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// TestMiddleware_BadHeader проверяет отказ запросам с некорректным
// заголовком Authorization.
func TestMiddleware_BadHeader(t *testing.T) {
	for _, header := range []string{"", "Basic dXNlcg==", "Bearer", "Bearer "} {
		rec, _, _ := doAuth(t, header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("заголовок %q: ожидался статус 401, получен %d", header, rec.Code)
		}
	}
}

// TestRequireRoles проверяет авторизацию по пересечению ролей.
func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		have     []string
		wantCode int
	}{
		{"звёздочка пропускает любого", []string{"*"}, []string{}, http.StatusOK},
		{"пустой набор пропускает любого", nil, []string{}, http.StatusOK},
		{"совпадение роли", []string{"admin"}, []string{"user", "admin"}, http.StatusOK},
		{"нет пересечения", []string{"admin"}, []string{"user"}, http.StatusUnauthorized},
		{"пустые роли вызывающего", []string{"admin"}, []string{}, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := NewJWTAuth(testSecret, "HS256", testLogger())
			token := signToken(t, jwt.SigningMethodHS256, validClaims(tc.have))

			var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler = RequireRoles(tc.required...)(handler)
			handler = auth.Middleware()(handler)

			req := httptest.NewRequest(http.MethodPost, "/upload/photo", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("ожидался статус %d, получен %d", tc.wantCode, rec.Code)
			}
		})
	}
}
