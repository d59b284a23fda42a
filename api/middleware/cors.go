package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/evtrading/evmarket-gateway/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173", // Vite dev server
	"http://localhost:3000",
}

// CORS returns middleware that applies the gateway's allowed origin policy.
// Credentials stay on because the session rides in a cookie.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
