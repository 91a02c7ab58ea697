package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/ruralpay/webbank/internal/config"
)

// CORS allows credentialed cross-origin requests from the configured
// origins only. Origins are matched exactly; with none configured every
// cross-origin request is refused.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	// go-chi/cors allows every origin when AllowedOrigins is empty, so the
	// check goes through AllowOriginFunc instead.
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return allowed[origin]
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}
