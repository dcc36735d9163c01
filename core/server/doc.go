// Package server provides an HTTP server with graceful shutdown and
// environment-based configuration.
//
// The dashboard runs behind a reverse proxy that terminates TLS, so the
// server speaks plain HTTP only. Start blocks until the context is cancelled
// and then drains in-flight requests:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return srv.Start(ctx, handler)
package server
