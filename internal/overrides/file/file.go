package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/isobit/graphiql-console/internal"
	"github.com/isobit/graphiql-console/internal/log"
)

var Source = &graphiql.OverrideSource{
	Names: []string{"file"},
	Open:  Open,

	Description: `
Reads console options from a JSON file. The file is read on every request, so
edits show up on the next page load.

Keys: endpointUrl, query, variables, result, operationName.
A null value is the same as leaving the key out: it never clears a value
from the request or an earlier source.

Examples:
	graphiql-console -o 'file:///etc/graphiql/defaults.json'
	graphiql-console -o 'file://./defaults.json'
	`,
}

type Provider struct {
	Path string
}

func Open(cfg graphiql.SourceConfig) (graphiql.OverrideProvider, error) {
	u, opts := graphiql.URLOptions(cfg.URL)
	if err := opts.Done(); err != nil {
		return nil, err
	}
	path, err := filePath(u)
	if err != nil {
		return nil, err
	}
	log.Logf(1, "overrides: will read %s", path)
	return &Provider{Path: path}, nil
}

func filePath(u *url.URL) (string, error) {
	var path string
	switch {
	case u.Opaque != "":
		path = u.Opaque
	case u.Host == "" || u.Host == "localhost":
		path = u.Path
	default:
		// file://./x.json and file://dir/x.json are relative paths.
		path = u.Host + u.Path
	}
	if path == "" {
		return "", fmt.Errorf("missing file path in %s", u)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("error resolving %s: %w", path, err)
	}
	return abs, nil
}

func (p *Provider) Override(ctx context.Context, req *graphiql.Request) (graphiql.Config, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return graphiql.Config{}, fmt.Errorf("error reading overrides: %w", err)
	}
	var cfg graphiql.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return graphiql.Config{}, fmt.Errorf("error decoding overrides %s: %w", p.Path, err)
	}
	return cfg, nil
}
