// Package server runs an http.Server with graceful shutdown.
//
//	srv, err := server.New(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	return g.Wait()
//
// Config carries SERVER_* environment tags for core/config. Setting both
// SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE enables HTTPS with a TLS 1.2
// minimum.
package server
