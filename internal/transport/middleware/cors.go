package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/verdd/verdd-backend/internal/config"
)

// CORS returns middleware that answers preflight requests and sets the
// Access-Control headers for allowed origins.
func CORS(cfg config.CORSConfig) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   splitList(cfg.AllowedOrigins),
		AllowedMethods:   splitList(cfg.AllowedMethods),
		AllowedHeaders:   splitList(cfg.AllowedHeaders),
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
