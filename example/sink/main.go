package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/clog"
)

const logDirectory = "./temp_logs"

// memorySink keeps delivered records, standing in for a network or database consumer
type memorySink struct {
	mu      sync.Mutex
	records []string
}

func (s *memorySink) Deliver(ts time.Time, level clog.Level, category, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, fmt.Sprintf("%s %s/%s %s", ts.Format(time.RFC3339), level, category, message))
}

func main() {
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- Running Sink Example ---")

	fmt.Println("\n[Scenario 1: sink receives what passes the file level]")
	sink := &memorySink{}
	logger, err := clog.NewBuilder().
		Directory(logDirectory).
		Name("sink_demo").
		FileLevel(clog.LevelInfo).
		Sink(sink).
		ErrorReporter(clog.ReporterFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, "reported:", msg)
		})).
		Build()
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("demo", "not delivered, below file level")
	logger.Info("demo", "delivered", 1)
	logger.Warning("demo", "delivered", 2)
	shutdownLogger(logger)
	for _, r := range sink.records {
		fmt.Println("  sink:", r)
	}

	fmt.Println("\n[Scenario 2: clean category kept off disk and away from the sink]")
	sink = &memorySink{}
	logger, err = clog.NewBuilder().
		Directory(logDirectory).
		Name("clean_demo").
		CleanCategory("CI", false).
		Sink(sink).
		Build()
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
		os.Exit(1)
	}
	logger.Info("CI", "token=secret, shown raw on console only")
	logger.Info("build", "persisted but not on console")
	shutdownLogger(logger)
	fmt.Printf("  sink received %d record(s)\n", len(sink.records))

	fmt.Println("\n--- Sink Example Complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}

func shutdownLogger(l *clog.Logger) {
	if err := l.Shutdown(); err != nil {
		fmt.Printf("  WARNING: Shutdown error: %v\n", err)
	}
}
