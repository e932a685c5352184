package cors

import (
	"net/http"

	"github.com/rs/cors"
)

// AddCorsPolicy allows read only cross origin access to handler.
func AddCorsPolicy(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
		Debug:          false,
	})

	return c.Handler(handler)
}
