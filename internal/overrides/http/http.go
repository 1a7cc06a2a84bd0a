package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/isobit/graphiql-console/internal"
	"github.com/isobit/graphiql-console/internal/log"
	"github.com/isobit/graphiql-console/internal/util"
	"github.com/isobit/graphiql-console/internal/version"
)

var Source = &graphiql.OverrideSource{
	Names: []string{"http", "https"},
	Open:  Open,

	Description: `
Fetches console options from an HTTP service with a GET request on every page
load. The console request's query string parameters are added to the URL
unless the URL already sets them. The response must be a JSON object with any
of the keys endpointUrl, query, variables, result and operationName.
A null value is the same as leaving the key out: it never clears a value
from the request or an earlier source.

Examples:
	graphiql-console -o 'https://config.internal/graphiql?team=payments'
	`,
}

type Provider struct {
	URL    *url.URL
	Client *http.Client
}

func Open(cfg graphiql.SourceConfig) (graphiql.OverrideProvider, error) {
	tlsConfig, err := cfg.TLS.ClientConfig()
	if err != nil {
		return nil, err
	}
	return &Provider{
		URL: cfg.URL,
		Client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		},
	}, nil
}

func (p *Provider) Override(ctx context.Context, req *graphiql.Request) (graphiql.Config, error) {
	reqURL := *p.URL
	query := reqURL.Query()
	for key, val := range req.Query {
		if _, ok := query[key]; !ok {
			query.Set(key, val)
		}
	}
	reqURL.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return graphiql.Config{}, err
	}
	httpReq.Header.Set("User-Agent", fmt.Sprintf("graphiql-console/%s", version.Version))
	httpReq.Header.Set("Accept", "application/json")

	log.Logf(1, "overrides: request: GET %s", reqURL.Redacted())
	util.LogHeaders("overrides: request header: ", httpReq.Header)
	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return graphiql.Config{}, err
	}
	defer resp.Body.Close()

	log.Logf(1, "overrides: response: %s", resp.Status)
	util.LogHeaders("overrides: response header: ", resp.Header)

	if resp.StatusCode >= 400 {
		return graphiql.Config{}, fmt.Errorf("error fetching overrides from %s: %s", p.URL.Redacted(), resp.Status)
	}

	var cfg graphiql.Config
	if err := json.NewDecoder(io.LimitReader(resp.Body, graphiql.MaxBodyBytes)).Decode(&cfg); err != nil {
		return graphiql.Config{}, fmt.Errorf("error decoding overrides response: %w", err)
	}
	return cfg, nil
}
