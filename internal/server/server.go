package server

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/isobit/graphiql-console/internal/log"
	"github.com/isobit/graphiql-console/internal/netutil"
	gqltls "github.com/isobit/graphiql-console/internal/tls"
	"github.com/isobit/graphiql-console/internal/util"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	URL *url.URL

	// Path the console is served on.
	Path    string
	Handler http.Handler

	// When ProxyPass is set, requests under ProxyPath are forwarded to it.
	ProxyPath string
	ProxyPass *url.URL

	TLS gqltls.Config
	Net netutil.Config
}

func NewMux(cfg Config) (http.Handler, error) {
	mux := http.NewServeMux()
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	if cfg.ProxyPass != nil {
		if cfg.ProxyPath == "" || cfg.ProxyPath == path {
			return nil, fmt.Errorf("proxy path %q conflicts with console path %q", cfg.ProxyPath, path)
		}
		tlsConfig, err := cfg.TLS.ClientConfig()
		if err != nil {
			return nil, err
		}
		proxy := &Proxy{
			Target: cfg.ProxyPass,
			Prefix: cfg.ProxyPath,
			Client: &http.Client{
				Transport: &http.Transport{TLSClientConfig: tlsConfig},
				CheckRedirect: func(req *http.Request, via []*http.Request) error {
					return http.ErrUseLastResponse
				},
			},
		}
		mux.Handle(cfg.ProxyPath, proxy)
		log.Logf(1, "proxying %s to %s", cfg.ProxyPath, cfg.ProxyPass.Redacted())
	}
	mux.Handle(path, cfg.Handler)

	host := ""
	if cfg.URL != nil {
		host = cfg.URL.Host
	}
	return logRequests(host, mux), nil
}

func logRequests(host string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Logf(0, "request: %s: %s %s", r.RemoteAddr, r.Method, r.URL)
		if r.Host != host {
			log.Logf(1, "request header: Host: %s", r.Host)
		}
		util.LogHeaders("request header: ", r.Header)
		next.ServeHTTP(w, r)
	})
}

// Serve listens on cfg.URL until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, cfg Config) error {
	handler, err := NewMux(cfg)
	if err != nil {
		return err
	}

	errLog := log.Writer(-1, "")
	defer errLog.Close()

	s := &http.Server{
		ErrorLog:          stdlog.New(errLog, "", 0),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	switch cfg.URL.Scheme {
	case "http":
	case "https":
		tlsConfig, err := cfg.TLS.ServerConfig([]string{cfg.URL.Hostname()})
		if err != nil {
			return err
		}
		s.TLSConfig = tlsConfig
	default:
		return fmt.Errorf("unsupported listen scheme: %s", cfg.URL.Scheme)
	}

	ln, err := cfg.Net.Listen(ctx, "tcp", cfg.URL.Host)
	if err != nil {
		return err
	}
	log.Logf(0, "listening: %s://%s%s", cfg.URL.Scheme, ln.Addr(), cfg.Path)
	return serve(ctx, s, ln)
}

func serve(ctx context.Context, s *http.Server, ln net.Listener) error {
	var serveErr error
	done := make(chan struct{})

	wg := conc.WaitGroup{}
	wg.Go(func() {
		defer close(done)
		if s.TLSConfig != nil {
			serveErr = s.ServeTLS(ln, "", "")
		} else {
			serveErr = s.Serve(ln)
		}
	})
	wg.Go(func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		log.Logf(1, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Logf(-1, "shutdown error: %s", err)
		}
	})
	wg.Wait()

	if errors.Is(serveErr, http.ErrServerClosed) {
		return nil
	}
	return serveErr
}
