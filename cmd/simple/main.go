package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/clog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[clog]
  name = "simple"
  directory = "./simple_logs"
  flush_interval_ms = 1000
  max_files = 3
  max_file_size = 102400
  console_level = "info"
  file_level = "debug"
  timestamp_format = "2006-01-02 15:04:05.000"
  report_timings = false
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// Create dummy config file
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	// A missing file falls back to defaults
	cfg, err := clog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := clog.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	logger.Debug("main", "This is a debug message.", "user_id", 123)
	logger.Info("main", "Application starting...")
	logger.Warning("main", "Potential issue detected.", "threshold", 0.95)
	logger.Critical("main", "Something went badly wrong!", "code", 500)

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Infof("worker", "goroutine %d started", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.Debugf("worker", "goroutine %d finished", id)
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	fmt.Println("Shutting down logger...")
	if err := logger.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	stats := logger.Stats()
	fmt.Printf("Flushes: %d, average flush time: %.3f ms\n", stats.Flushes, stats.AverageFlushTime*1000)
	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs'.\n")
}
