// Package middleware содержит HTTP middleware сервиса
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// HeaderUserID заголовок, в котором шлюз передает ID пользователя
const HeaderUserID = "X-User-ID"

// Auth извлекает ID пользователя из заголовка и кладет его в контекст.
// Аутентификацию выполняет API-шлюз; сервис доверяет заголовку.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(HeaderUserID); userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
