// Command clogstress drives a logger from many concurrent producers and prints its timing diagnostics.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/clog"
)

var (
	configFile  string
	overrides   []string
	numWorkers  int
	totalBursts int
	perBurst    int
	maxMessage  int
)

var levels = []clog.Level{
	clog.LevelDebug,
	clog.LevelInfo,
	clog.LevelWarning,
	clog.LevelCritical,
}

var rootCmd = &cobra.Command{
	Use:   "clogstress",
	Short: "Stress the buffered file logger with concurrent producers",
	Long: `
Run bursts of random records through the logger from concurrent workers.
Small file limits force frequent rotation.

Examples:
  clogstress                                      # Defaults, logs in ./logs
  clogstress -c stress.toml                       # Settings from the [clog] table of stress.toml
  clogstress --set max_file_size=102400 -w 50     # Override single keys
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runStress(cfg)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil, "key=value override, repeatable")
	rootCmd.Flags().IntVarP(&numWorkers, "workers", "w", 200, "concurrent producers")
	rootCmd.Flags().IntVarP(&totalBursts, "bursts", "b", 100, "number of bursts")
	rootCmd.Flags().IntVarP(&perBurst, "per-burst", "n", 500, "records per burst")
	rootCmd.Flags().IntVar(&maxMessage, "max-message", 2000, "largest random message size")

	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves file, stress defaults and overrides in that order
func loadConfig() (*clog.Config, error) {
	cfg := clog.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = clog.NewConfigFromFile(configFile); err != nil {
			return nil, err
		}
	} else {
		cfg.Name = "stress_test"
		cfg.Directory = "./logs"
		cfg.FlushIntervalMs = 1000
		cfg.MaxFiles = 5
		cfg.MaxFileSize = 1024 * 1024
		cfg.ConsoleLevel = clog.LevelCritical
	}
	if err := cfg.ApplyOverride(overrides...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(logger *clog.Logger, burstID int) {
	for i := 0; i < perBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msg := generateRandomMessage(rand.Intn(maxMessage) + 10)
		logger.Log(level, fmt.Sprintf("worker-%d", burstID%numWorkers), msg, "bst", burstID, "seq", i)
	}
}

func runStress(cfg *clog.Config) error {
	var reported atomic.Int64
	logger, err := clog.New(cfg, clog.WithErrorReporter(clog.ReporterFunc(func(msg string) {
		reported.Add(1)
		fmt.Fprintln(os.Stderr, "\nreported:", msg)
	})))
	if err != nil {
		return err
	}

	effective := logger.Config()
	fmt.Printf("Logs will be written to: %s/%s_0.log\n", effective.Directory, effective.Name)
	fmt.Printf("Starting stress test: %d workers, %d bursts, %d records/burst.\n", numWorkers, totalBursts, perBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	var completed atomic.Int64
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for burstID := range burstChan {
				logBurst(logger, burstID)
				if n := completed.Add(1); n%10 == 0 || n == int64(totalBursts) {
					fmt.Printf("\rProgress: %d/%d bursts, pending %d lines", n, totalBursts, logger.Pending())
				}
			}
		}()
	}

	startTime := time.Now()
submit:
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			break submit
		}
	}
	close(burstChan)
	wg.Wait()
	duration := time.Since(startTime)

	shutdownErr := logger.Shutdown()
	stats := logger.Stats()

	fmt.Printf("\n--- Test Finished ---\n")
	fmt.Printf("Completed %d/%d bursts in %v\n", completed.Load(), totalBursts, duration.Round(time.Millisecond))
	if duration.Seconds() > 0 {
		fmt.Printf("Approximate records/sec: %.2f\n", float64(completed.Load()*int64(perBurst))/duration.Seconds())
	}
	fmt.Printf("Flush EMA: %.3f ms, rotation EMA: %.3f ms\n", stats.AverageFlushTime*1000, stats.AverageRotationTime*1000)
	fmt.Printf("Buffer high water: %d lines, flushes: %d (failed %d), rotations: %d, deletions: %d\n",
		stats.BufferHighWater, stats.Flushes, stats.FailedFlushes, stats.Rotations, stats.Deletions)
	fmt.Printf("Reported errors: %d\n", reported.Load())

	return shutdownErr
}
