package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/clog"
)

func main() {
	logger, err := clog.NewBuilder().
		Directory("./logs").
		Name("heartbeat").
		FlushIntervalMs(1000).
		HeartbeatIntervalS(2).
		ReportTimings(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Heartbeat test: 2s heartbeat, 1s flush ---")
	logger.Info("test", "Heartbeat test started")

	// Generate some records to move the heartbeat counters
	for j := 0; j < 50; j++ {
		logger.Debug("test", "Debug test log", "iteration", j)
		logger.Info("test", "Info test log", "iteration", j)
		logger.Warning("test", "Warning test log", "iteration", j)
		time.Sleep(100 * time.Millisecond)
	}

	// Wait for a few more heartbeats
	waitTime := 5 * time.Second
	fmt.Printf("Waiting %v for heartbeats to generate...\n", waitTime)
	time.Sleep(waitTime)

	logger.Info("test", "Heartbeat test completed")

	if err := logger.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to shut down logger: %v\n", err)
	}

	fmt.Println("\nHeartbeat test program completed successfully")
	fmt.Println("Check ./logs/heartbeat_0.log for [clog] heartbeat records")
}
