package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/isobit/graphiql-console/internal"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestMuxServesConsoleAndProxy(t *testing.T) {
	var backendReq *http.Request
	var backendBody string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendReq = r
		body, _ := io.ReadAll(r.Body)
		backendBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer backend.Close()

	mux, err := NewMux(Config{
		URL:       mustParseURL(t, "http://localhost:8080"),
		Path:      "/",
		Handler:   graphiql.NewHandler(nil),
		ProxyPath: "/graphql",
		ProxyPass: mustParseURL(t, backend.URL+"/query"),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/?query=%7B+ok+%7D")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, graphiql.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, string(page), `query: "{ ok }",`)

	resp, err = srv.Client().Post(srv.URL+"/graphql?token=abc", "application/json", strings.NewReader(`{"query":"{ ok }"}`))
	require.NoError(t, err)
	result, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":{"ok":true}}`, string(result))

	require.NotNil(t, backendReq)
	assert.Equal(t, http.MethodPost, backendReq.Method)
	assert.Equal(t, "/query", backendReq.URL.Path)
	assert.Equal(t, "token=abc", backendReq.URL.RawQuery)
	assert.Equal(t, `{"query":"{ ok }"}`, backendBody)
	assert.Contains(t, backendReq.Header.Get("Forwarded"), "proto=http")
}

func TestMuxProxyPathConflict(t *testing.T) {
	_, err := NewMux(Config{
		Path:      "/",
		Handler:   graphiql.NewHandler(nil),
		ProxyPath: "/",
		ProxyPass: mustParseURL(t, "http://backend"),
	})
	assert.Error(t, err)
}

func TestProxyBadGateway(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	p := &Proxy{Target: mustParseURL(t, "http://"+addr), Prefix: "/graphql"}
	w := httptest.NewRecorder()
	p.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{}")))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestProxyTargetURL(t *testing.T) {
	for _, tc := range []struct {
		target string
		prefix string
		in     string
		want   string
	}{
		{"http://b/query", "/graphql", "/graphql", "http://b/query"},
		{"http://b/query", "/graphql/", "/graphql/batch?x=1", "http://b/query/batch?x=1"},
		{"http://b", "/graphql", "/graphql/v2", "http://b/v2"},
		{"http://b/q?key=k", "/graphql", "/graphql?x=1", "http://b/q?key=k&x=1"},
	} {
		p := &Proxy{Target: mustParseURL(t, tc.target), Prefix: tc.prefix}
		assert.Equal(t, tc.want, p.targetURL(mustParseURL(t, tc.in)).String(), "%+v", tc)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &http.Server{Handler: graphiql.NewHandler(nil)}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, s, ln)
	}()

	transport := &http.Transport{}
	client := &http.Client{Transport: transport}
	resp, err := client.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	transport.CloseIdleConnections()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeUnsupportedScheme(t *testing.T) {
	err := Serve(context.Background(), Config{
		URL:     mustParseURL(t, "ftp://localhost:0"),
		Handler: graphiql.NewHandler(nil),
	})
	assert.EqualError(t, err, "unsupported listen scheme: ftp")
}
