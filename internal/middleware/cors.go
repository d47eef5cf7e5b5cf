package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows cross-origin reads from the single trusted storefront origin
func CORSMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	})
}
