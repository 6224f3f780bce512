package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/coffeeshop/internal/telemetry"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.HTTPRoute)
	return r
}

// Mount registers routes under basePath, or at the root when basePath is
// empty.
func Mount(r chi.Router, basePath string, routes func(chi.Router)) {
	if basePath == "" {
		routes(r)
		return
	}
	r.Route(basePath, routes)
}

// Instrument wraps the router in a server span per request.
func Instrument(h http.Handler, serviceName string) http.Handler {
	return otelhttp.NewHandler(h, serviceName,
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
