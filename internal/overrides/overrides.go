package overrides

import (
	"fmt"

	"github.com/isobit/graphiql-console/internal"
	"github.com/isobit/graphiql-console/internal/overrides/file"
	"github.com/isobit/graphiql-console/internal/overrides/http"
	"github.com/isobit/graphiql-console/internal/overrides/postgresql"
)

func init() {
	registerSources(
		file.Source,
		http.Source,
		postgresql.Source,
	)
}

var Registry = map[string]*graphiql.OverrideSource{}

func registerSources(sources ...*graphiql.OverrideSource) {
	for _, source := range sources {
		for _, name := range source.Names {
			if _, exists := Registry[name]; exists {
				panic(fmt.Sprintf("conflicting override source name: %s", name))
			}
			Registry[name] = source
		}
	}
}

func Lookup(scheme string) (*graphiql.OverrideSource, bool) {
	source, ok := Registry[scheme]
	return source, ok
}

// Open picks the source for cfg.URL's scheme and opens a provider from it.
func Open(cfg graphiql.SourceConfig) (graphiql.OverrideProvider, error) {
	source, ok := Lookup(cfg.URL.Scheme)
	if !ok || source.Open == nil {
		return nil, fmt.Errorf("unknown override source: %s", cfg.URL.Scheme)
	}
	provider, err := source.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("error opening %s override source: %w", cfg.URL.Scheme, err)
	}
	return provider, nil
}
