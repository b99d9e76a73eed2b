// Command redditmcp serves Reddit's public read API as MCP tools over
// stdio (local) or streamable HTTP (remote).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/jonwraymond/redditmcp/internal/bridge"
	"github.com/jonwraymond/redditmcp/internal/config"
	"github.com/jonwraymond/redditmcp/internal/logger"
	"github.com/jonwraymond/redditmcp/internal/reddit"
	"github.com/jonwraymond/redditmcp/internal/server"
)

const version = "1.0.0"

func main() {
	transport := flag.String("transport", "", "transport mode: stdio for local, streamable-http for remote (default from config: stdio)")
	host := flag.String("host", "", "host for HTTP transport (default from config: 127.0.0.1)")
	port := flag.Int("port", 0, "port for HTTP transport (default from config: 8081)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	newUpstream := func() bridge.Upstream {
		return reddit.NewClient(
			reddit.WithBaseURL(cfg.Reddit.BaseURL),
			reddit.WithUserAgent(cfg.Reddit.UserAgent),
			reddit.WithTimeout(cfg.Reddit.Timeout),
		)
	}

	srv, err := server.New(server.Config{
		Info:        server.ServerInfo{Name: "redditmcp", Version: version},
		NewUpstream: newUpstream,
		Logger:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx := context.Background()

	switch cfg.Server.Transport {
	case "stdio":
		log.Info().Msg("serving MCP over stdio")
		if err := srv.ServeStdio(ctx); err != nil {
			log.Fatal().Err(err).Msg("stdio transport failed")
		}
	case "streamable-http":
		mux := http.NewServeMux()
		mux.Handle("/mcp", srv.HTTPHandler())
		mux.Handle("/sse", srv.SSEHandler())

		addr := cfg.Server.Addr()
		log.Info().Str("addr", addr).Msg("serving MCP over streamable HTTP")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatal().Err(err).Msg("http transport failed")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown transport %q (want stdio or streamable-http)\n", cfg.Server.Transport)
		os.Exit(2)
	}
}
