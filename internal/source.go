package graphiql

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	gqltls "github.com/isobit/graphiql-console/internal/tls"
)

// OverrideSource describes a kind of override provider selected by URL
// scheme, e.g. file:///etc/console.json.
type OverrideSource struct {
	Names []string

	Open func(SourceConfig) (OverrideProvider, error)

	Description string
	OptionHelp  OptionsHelp
}

type SourceConfig struct {
	URL *url.URL
	TLS gqltls.Config
}

// Options are source settings carried in the source URL's query string.
type Options map[string]string

// URLOptions splits the query string off u. The returned URL is a copy.
func URLOptions(u *url.URL) (*url.URL, Options) {
	urlCopy := *u
	opts := Options{}
	for key, vals := range u.Query() {
		if len(vals) > 0 {
			opts[key] = vals[len(vals)-1]
		}
	}
	urlCopy.RawQuery = ""
	return &urlCopy, opts
}

func (opts Options) Pop(key string) (string, bool) {
	v, ok := opts[key]
	if ok {
		delete(opts, key)
	}
	return v, ok
}

func (opts Options) Done() error {
	if len(opts) == 0 {
		return nil
	}
	keys := []string{}
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown options: %s", strings.Join(keys, ", "))
}

// Values turns the remaining options back into a query string.
func (opts Options) Values() url.Values {
	values := url.Values{}
	for k, v := range opts {
		values.Set(k, v)
	}
	return values
}

type OptionsHelp []OptionHelp

func (oh OptionsHelp) Add(name string, value string, description string) OptionsHelp {
	oh = append(oh, OptionHelp{
		Name:        name,
		Value:       value,
		Description: description,
	})
	return oh
}

type OptionHelp struct {
	Name        string
	Value       string
	Description string
}
