package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/orcap/tms/internal/calculation"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, calculations *calculation.Service, adminAPIKey string) *http.Server {
	handler := NewHandler(calculations)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/calculations/latest", handler.GetLatestCalculation)
	mux.HandleFunc("GET /api/v1/calculations/{period}", handler.GetCalculationByPeriod)
	mux.HandleFunc("GET /api/v1/calculations", handler.ListCalculations)
	mux.HandleFunc("GET /api/v1/ledger/{advisor}", handler.GetLedgerHistory)

	runHandler := http.HandlerFunc(handler.RunCalculation)
	if adminAPIKey != "" {
		mux.Handle("POST /api/v1/calculations/run", requireAuth(adminAPIKey, runHandler))
	} else {
		mux.Handle("POST /api/v1/calculations/run", runHandler)
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
