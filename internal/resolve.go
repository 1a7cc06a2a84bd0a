package graphiql

import (
	"context"
)

// OverrideProvider supplies console options on top of the ones derived from
// the request. Any field it sets wins over the request default.
type OverrideProvider interface {
	Override(ctx context.Context, req *Request) (Config, error)
}

type OverrideFunc func(ctx context.Context, req *Request) (Config, error)

func (f OverrideFunc) Override(ctx context.Context, req *Request) (Config, error) {
	return f(ctx, req)
}

type Resolver struct {
	Override OverrideProvider
}

// Resolve computes the request defaults and overlays the override provider's
// result, if there is a provider. The provider is called at most once and its
// error is the only way Resolve can fail.
func (r Resolver) Resolve(ctx context.Context, req *Request) (Config, error) {
	cfg := DefaultConfig(req)
	if r.Override == nil {
		return cfg, nil
	}
	override, err := r.Override.Override(ctx, req)
	if err != nil {
		return Config{}, err
	}
	return cfg.Merge(override), nil
}

// DefaultConfig derives query, variables and result from the request body,
// falling back to the query string. Empty values count as missing.
// Unparseable variables or result are dropped.
func DefaultConfig(req *Request) Config {
	cfg := Config{}
	if req == nil {
		return cfg
	}
	if query := lookup(req, "query"); query != "" {
		cfg.Query = String(query)
	}
	if variables, ok := ParseStructured(lookup(req, "variables")); ok {
		cfg.Variables = variables
	}
	if result, ok := ParseStructured(lookup(req, "result")); ok {
		cfg.Result = result
	}
	return cfg
}

func lookup(req *Request, key string) string {
	if v := req.Body[key]; v != "" {
		return v
	}
	return req.Query[key]
}

// Chain calls each provider in order and merges their results, so later
// providers win. The first error stops the chain.
func Chain(providers ...OverrideProvider) OverrideProvider {
	return OverrideFunc(func(ctx context.Context, req *Request) (Config, error) {
		cfg := Config{}
		for _, p := range providers {
			o, err := p.Override(ctx, req)
			if err != nil {
				return Config{}, err
			}
			cfg = cfg.Merge(o)
		}
		return cfg, nil
	})
}
