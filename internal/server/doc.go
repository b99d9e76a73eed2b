// Package server exposes the bridge's operations as MCP tools.
//
// It declares the eight content-retrieval tools with their input schemas,
// dispatches MCP JSON-RPC requests (initialize, ping, tools/list,
// tools/call), and serves them over stdio, streamable HTTP, or SSE.
//
// Input constraints live in the tool schemas and are validated before the
// bridge runs; the bridge assumes validated inputs. Each tools/call gets
// a fresh upstream handle from the configured factory, so concurrent
// calls share nothing.
//
// # Usage
//
//	srv, err := server.New(server.Config{
//	    Info:        server.ServerInfo{Name: "redditmcp", Version: "1.0.0"},
//	    NewUpstream: func() bridge.Upstream { return reddit.NewClient() },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.ServeStdio(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
