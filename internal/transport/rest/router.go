package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"compass/internal/service"
	"compass/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	TurnService    *service.TurnService
	ReportService  *service.ReportService
	AllowedOrigins []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	turnHandler := handler.NewTurnHandler(c.TurnService)
	reportHandler := handler.NewReportHandler(c.ReportService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))

	// Live turn path
	r.HandleFunc("/process_audio", turnHandler.Process).Methods("GET", "OPTIONS")

	// Health check
	r.HandleFunc("/health", handler.Health).Methods("GET")

	// Offline report path
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/reports/{conversationId}", reportHandler.Build).Methods("POST", "OPTIONS")
	v1.HandleFunc("/reports/{conversationId}", reportHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	origins := "*"
	if len(allowedOrigins) > 0 {
		origins = strings.Join(allowedOrigins, ", ")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
