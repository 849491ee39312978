package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS 只允许配置的前端来源跨域访问。
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:       []string{allowedOrigin},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type"},
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	})
}
