package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"slicedroid/internal/config"
	"slicedroid/internal/engine/analyzer"
	"slicedroid/internal/engine/classify"
	"slicedroid/internal/model"
	"slicedroid/internal/trace"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	engine := analyzer.New(
		analyzer.WithProbe(classify.NewPrefixProbe(cfg.Analyzer.SensitivePrefixes)),
	)

	r := mux.NewRouter()

	apiHandler := &APIHandler{engine: engine, defaults: cfg.AnalysisConfig()}

	r.HandleFunc("/api/v1/analyze", apiHandler.analyzeHandler).Methods("POST")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	engine   *analyzer.Analyzer
	defaults analyzer.Config
}

// analyzeHandler runs the windowed analysis over a posted trace payload.
// The payload is a bare event array or an object with the trace streams and
// an optional per-request config override.
func (h *APIHandler) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read request body: %v", err), http.StatusBadRequest)
		return
	}

	input, override, err := trace.Decode(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.engine.Analyze(input, override.Apply(h.defaults))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrInvalidConfig) || errors.Is(err, model.ErrMalformedInput) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("failed to analyze trace: %v", err), status)
		return
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
