package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/clog"
	"github.com/lixenwraith/clog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	cfg := clog.DefaultConfig()
	err := cfg.ApplyOverride(
		"directory=/var/log/gnet",
		"name=echo",
		"console_level=info",
		"file_level=debug",
	)
	if err != nil {
		panic(err)
	}

	logger, err := clog.New(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	gnetAdapter := compat.NewGnetAdapter(logger, compat.WithGnetCategory("echo"))

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Critical("echo", "server stopped:", err)
	}
}
