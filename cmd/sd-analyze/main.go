package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"slicedroid/internal/config"
	"slicedroid/internal/engine/analyzer"
	"slicedroid/internal/engine/classify"
	"slicedroid/internal/model"
	"slicedroid/internal/trace"
)

func main() {
	traceFile := flag.String("trace", "", "Trace file to analyze (JSON payload or bare event array).")
	netFile := flag.String("net", "", "Optional TCP/UDP side stream file (JSON array).")
	outFile := flag.String("out", "", "Write the result to this file instead of stdout.")
	watchDir := flag.String("watch", "", "Watch a directory and analyze trace files as they are dropped in.")
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	engine := analyzer.New(
		analyzer.WithProbe(classify.NewPrefixProbe(cfg.Analyzer.SensitivePrefixes)),
	)

	switch {
	case *watchDir != "":
		runWatcher(engine, cfg, *watchDir)
	case *traceFile != "":
		result, err := analyzeFile(engine, cfg, *traceFile, *netFile)
		if err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
		if err := writeResult(result, *outFile); err != nil {
			log.Fatalf("Failed to write result: %v", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "Either -trace or -watch is required.")
		flag.Usage()
		os.Exit(1)
	}
}

// analyzeFile runs one analysis over a trace file, merging in an optional
// separate net event file and the per-payload config override.
func analyzeFile(engine *analyzer.Analyzer, cfg *config.Config, tracePath, netPath string) (*model.AnalysisResult, error) {
	data, err := os.ReadFile(tracePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	input, override, err := trace.Decode(data)
	if err != nil {
		return nil, err
	}

	if netPath != "" {
		netData, err := os.ReadFile(netPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read net event file: %w", err)
		}
		netEvents, err := trace.DecodeNetEvents(netData)
		if err != nil {
			return nil, err
		}
		input.NetEvents = netEvents
	}

	return engine.Analyze(input, override.Apply(cfg.AnalysisConfig()))
}

func writeResult(result *model.AnalysisResult, outPath string) error {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}
	return os.WriteFile(outPath, jsonBytes, 0o644)
}

// runWatcher analyzes trace files as they land in a drop directory, writing
// a sibling .result.json next to each. Result files themselves are skipped
// so the watcher does not feed on its own output.
func runWatcher(engine *analyzer.Analyzer, cfg *config.Config, dir string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Fatalf("Failed to watch %s: %v", dir, err)
	}
	log.Printf("Watching %s for trace files...", dir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") || strings.HasSuffix(event.Name, ".result.json") {
				continue
			}

			result, err := analyzeFile(engine, cfg, event.Name, "")
			if err != nil {
				log.Printf("Failed to analyze %s: %v", event.Name, err)
				continue
			}

			outPath := strings.TrimSuffix(event.Name, ".json") + ".result.json"
			if err := writeResult(result, outPath); err != nil {
				log.Printf("Failed to write result for %s: %v", event.Name, err)
				continue
			}
			log.Printf("Analyzed %s: %d events in %d windows -> %s",
				filepath.Base(event.Name), result.TotalEvents, len(result.Windows), filepath.Base(outPath))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)

		case <-sigChan:
			log.Println("Shutdown signal received, stopping watcher.")
			return
		}
	}
}
