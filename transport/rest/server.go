package rest

import (
	"fmt"
	"net/http"
	"time"
)

// Start - starts the HTTP server with the health and results endpoints.
func Start(port string, results ResultsHandler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", NewPingHandler().PingHandler)
	mux.HandleFunc("/results", results.ResultsHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
