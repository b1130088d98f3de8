package httpserver

import (
	"net/http"
	"strings"

	"github.com/fdg312/fitbot/internal/config"
	"github.com/rs/cors"
)

// CORSMiddleware returns an http.Handler that adds CORS headers for the configured origins.
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	origins := make([]string, 0, len(cfg.CORSAllowedOrigins))
	for _, o := range cfg.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           600,
	}
	// пустой список в cors означает "*", а у нас - запрет
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts).Handler(next)
}
