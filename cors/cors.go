// Package cors lets the browser client call the relay from another origin.
package cors

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// AllowedHeaders are returned on every response, not only on preflight.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

func New(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     AllowedHeaders,
		OptionsPassthrough: true,
	})
	return c.Handler(withHeaders(next))
}

var allowedHeaders = strings.Join(AllowedHeaders, ", ")

func withHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
