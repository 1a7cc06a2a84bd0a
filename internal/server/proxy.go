package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/isobit/graphiql-console/internal/log"
	"github.com/isobit/graphiql-console/internal/util"
)

var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards requests under Prefix to Target, so the console can talk to
// a GraphQL server on another origin without CORS.
type Proxy struct {
	Target *url.URL
	Prefix string
	Client *http.Client
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := p.targetURL(r.URL)
	pr, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		log.Logf(-1, "failed to build proxy request: %s", err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	pr.ContentLength = r.ContentLength
	for key, vals := range r.Header {
		for _, val := range vals {
			pr.Header.Add(key, val)
		}
	}
	removeHopHeaders(pr.Header)
	forwardedProto := "http"
	if r.TLS != nil {
		forwardedProto = "https"
	}
	pr.Header.Add("Forwarded", fmt.Sprintf("for=%q;proto=%s;host=%q", r.RemoteAddr, forwardedProto, r.Host))

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	log.Logf(1, "proxy: %s %s", r.Method, target.Redacted())
	resp, err := client.Do(pr)
	if err != nil {
		log.Logf(-1, "failed to proxy request: %s", err)
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	log.Logf(0, "proxy response: %s", resp.Status)
	util.LogHeaders("proxy response header: ", resp.Header)

	removeHopHeaders(resp.Header)
	for key, vals := range resp.Header {
		for _, val := range vals {
			w.Header().Add(key, val)
		}
	}
	w.WriteHeader(resp.StatusCode)

	if log.LogLevel < 10 {
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Logf(1, "error copying proxy response: %s", err)
		}
		return
	}
	bodyBuf := &bytes.Buffer{}
	if _, err := io.Copy(io.MultiWriter(w, bodyBuf), resp.Body); err != nil {
		log.Logf(1, "error copying proxy response: %s", err)
	}
	log.Logf(10, "proxy response body: %s", bodyBuf)
}

func (p *Proxy) targetURL(in *url.URL) *url.URL {
	target := *p.Target
	suffix := strings.TrimPrefix(in.Path, strings.TrimSuffix(p.Prefix, "/"))
	if suffix != "" {
		target.Path = strings.TrimSuffix(target.Path, "/") + "/" + strings.TrimPrefix(suffix, "/")
	}
	target.RawPath = ""
	switch {
	case target.RawQuery == "":
		target.RawQuery = in.RawQuery
	case in.RawQuery != "":
		target.RawQuery = target.RawQuery + "&" + in.RawQuery
	}
	target.Fragment = ""
	return &target
}

func removeHopHeaders(header http.Header) {
	for _, h := range hopHeaders {
		header.Del(h)
	}
}
