package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"slicedroid/internal/config"
	"slicedroid/internal/engine/analyzer"
	"slicedroid/internal/model"
	"slicedroid/internal/probe"
	"slicedroid/internal/trace"
)

func main() {
	// --- Command-Line Flag Parsing ---
	mode := flag.String("mode", "sub", "Operating mode: 'pub' to stream a trace file, 'sub' to collect and analyze.")
	traceFile := flag.String("trace", "", "JSON-lines trace file to publish (required for pub mode).")
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Mode Dispatch ---
	switch *mode {
	case "pub":
		runPublisher(cfg, *traceFile)
	case "sub":
		runSubscriber(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Invalid mode: %s\n", *mode)
		flag.Usage()
		os.Exit(1)
	}
}

// runPublisher streams a JSON-lines trace file to NATS, one event per line.
func runPublisher(cfg *config.Config, traceFile string) {
	if traceFile == "" {
		log.Println("Error: -trace flag is required for pub mode.")
		flag.Usage()
		os.Exit(1)
	}
	log.Printf("Starting sd-probe in PUBLISH mode for trace file: %s", traceFile)

	pub, err := probe.NewPublisher(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	f, err := os.Open(traceFile)
	if err != nil {
		log.Fatalf("Error opening trace file %s: %v", traceFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	eventsPublished := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := trace.DecodeEvent(line)
		if err != nil {
			log.Printf("Skipping undecodable line: %v", err)
			continue
		}
		if err := pub.Publish(&ev); err != nil {
			log.Printf("Failed to publish event: %v", err)
		}
		eventsPublished++
		if eventsPublished%1000 == 0 {
			log.Printf("%d events published...", eventsPublished)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading trace file: %v", err)
	}
	log.Printf("Done. %d events published.", eventsPublished)
}

// runSubscriber collects trace events from NATS and runs the windowed
// analysis over everything received when a shutdown signal arrives.
func runSubscriber(cfg *config.Config) {
	log.Println("Starting sd-probe in SUBSCRIBER mode...")

	sub, err := probe.NewSubscriber(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	var mu sync.Mutex
	var events []model.Event

	handler := func(ev model.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}

	if err := sub.Start(handler); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	mu.Lock()
	collected := events
	mu.Unlock()
	log.Printf("Shutdown signal received, analyzing %d collected events...", len(collected))

	engine := analyzer.New()
	result, err := engine.Analyze(&model.TraceInput{Events: collected}, cfg.AnalysisConfig())
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal result: %v", err)
	}
	fmt.Println(string(jsonBytes))
}
