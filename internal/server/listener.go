package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// Listener is a bound HTTP server. Binding happens in Listen so the caller
// can log readiness before anything else runs.
type Listener struct {
	srv *http.Server
	ln  net.Listener
}

// Listen binds addr and prepares handler to be served on it.
func Listen(addr string, handler http.Handler) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ln: ln,
	}, nil
}

// Addr is the bound address, useful when addr used port 0.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close releases the listener without serving.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Serve blocks until ctx is canceled or the server fails. Cancellation
// closes the listener and open connections at once; in-flight requests are
// not drained.
func (l *Listener) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.srv.Serve(l.ln)
	}()

	select {
	case <-ctx.Done():
		_ = l.srv.Close()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
