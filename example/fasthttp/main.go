package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/clog"
	"github.com/lixenwraith/clog/compat"
)

func main() {
	logger, err := clog.NewBuilder().
		Directory("/var/log/fasthttp").
		Name("server").
		LevelString("info").
		FlushIntervalMs(2000).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(clog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	logger.Info("server", "starting on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Critical("server", "listen failed:", err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (clog.Level, bool) {
	if strings.Contains(msg, "connection cannot be served") {
		return clog.LevelWarning, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return clog.LevelCritical, true
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
