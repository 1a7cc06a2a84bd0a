package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/isobit/cli"

	"github.com/isobit/graphiql-console/internal"
	"github.com/isobit/graphiql-console/internal/log"
	"github.com/isobit/graphiql-console/internal/netutil"
	"github.com/isobit/graphiql-console/internal/overrides"
	"github.com/isobit/graphiql-console/internal/overrides/exec"
	"github.com/isobit/graphiql-console/internal/server"
	gqltls "github.com/isobit/graphiql-console/internal/tls"
	"github.com/isobit/graphiql-console/internal/version"
)

func main() {
	if stderrStat, err := os.Stderr.Stat(); err == nil {
		if stderrStat.Mode()&os.ModeCharDevice != 0 {
			log.LogColor = true
		}
	}

	err := cli.New("graphiql-console", NewConsole()).
		Parse().
		Run()

	if err != nil && err != cli.ErrHelp {
		log.Logf(-1, "error: %s", err)
		os.Exit(1)
	}
}

type Console struct {
	ListenURL   *url.URL `cli:"name=listen,short=l,placeholder=URL,env=GRAPHIQL_CONSOLE_LISTEN,help=http or https URL to serve the console on"`
	Path        string   `cli:"env=GRAPHIQL_CONSOLE_PATH,help=path to serve the console on"`
	EndpointURL string   `cli:"name=endpoint,short=e,placeholder=URL,env=GRAPHIQL_CONSOLE_ENDPOINT,help=GraphQL endpoint the console sends queries to"`

	ProxyPass *url.URL `cli:"name=proxy-pass,short=p,placeholder=URL,env=GRAPHIQL_CONSOLE_PROXY_PASS,help=proxy GraphQL requests on --proxy-path to this server"`
	ProxyPath string   `cli:"name=proxy-path,env=GRAPHIQL_CONSOLE_PROXY_PATH,help=path to proxy to --proxy-pass"`

	Overrides    []string `cli:"name=override,short=o,append,placeholder=URL,nodefault,help=override source URL; may be passed multiple times"`
	OverrideExec string   `cli:"name=override-exec,short=x,placeholder=CMD,env=GRAPHIQL_CONSOLE_OVERRIDE_EXEC,help=run a command per request to get overrides"`

	ListOverrides bool   `cli:"short=L,help=list available override sources"`
	OverrideHelp  string `cli:"short=H,help=show help for override source"`

	Verbose  bool `cli:"short=v,help=more verbose logging"`
	Quiet    bool `cli:"short=q,help=disable all logging"`
	Debug    bool `cli:"help=maximum logging"`
	LogLevel int  `cli:"hidden"`

	Version bool `cli:"short=V,help=show version"`

	TLS gqltls.Config  `cli:"embed"`
	Net netutil.Config `cli:"embed"`
}

func NewConsole() *Console {
	return &Console{
		ListenURL: &url.URL{Scheme: "http", Host: "localhost:8080"},
		Path:      "/",
		ProxyPath: "/graphql",
	}
}

func (cmd Console) Run() error {
	if cmd.ListOverrides {
		return listOverrides(os.Stderr)
	}
	if cmd.OverrideHelp != "" {
		return overrideHelp(os.Stderr, cmd.OverrideHelp)
	}
	if cmd.Version {
		fmt.Fprintln(os.Stderr, version.Version)
		return nil
	}

	switch {
	case cmd.Verbose && cmd.Quiet:
		return cli.UsageErrorf("--verbose and --quiet are mutually exclusive")
	case cmd.LogLevel != 0:
		log.LogLevel = cmd.LogLevel
	case cmd.Quiet:
		log.LogLevel = -10
	case cmd.Verbose:
		log.LogLevel = 1
	case cmd.Debug:
		log.LogLevel = 10
	}

	if cmd.ListenURL == nil {
		return cli.UsageErrorf("--listen is required")
	}
	if !strings.HasPrefix(cmd.Path, "/") {
		return cli.UsageErrorf("--path must start with /")
	}

	provider, closers, err := cmd.overrideProvider()
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, server.Config{
		URL:       cmd.ListenURL,
		Path:      cmd.Path,
		Handler:   graphiql.NewHandler(provider),
		ProxyPath: cmd.ProxyPath,
		ProxyPass: cmd.ProxyPass,
		TLS:       cmd.TLS,
		Net:       cmd.Net,
	})
}

// overrideProvider chains, in order: the endpoint from the command line, each
// --override source, then --override-exec. Later providers win.
func (cmd Console) overrideProvider() (graphiql.OverrideProvider, []io.Closer, error) {
	providers := []graphiql.OverrideProvider{}
	closers := []io.Closer{}

	endpoint := cmd.EndpointURL
	if endpoint == "" && cmd.ProxyPass != nil {
		endpoint = cmd.ProxyPath
	}
	if endpoint != "" {
		providers = append(providers, staticConfig(graphiql.Config{
			EndpointURL: graphiql.String(endpoint),
		}))
	}

	for _, raw := range cmd.Overrides {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, closers, cli.UsageErrorf("invalid override URL %q: %s", raw, err)
		}
		provider, err := overrides.Open(graphiql.SourceConfig{
			URL: u,
			TLS: cmd.TLS,
		})
		if err != nil {
			return nil, closers, err
		}
		if c, ok := provider.(io.Closer); ok {
			closers = append(closers, c)
		}
		providers = append(providers, provider)
	}

	if cmd.OverrideExec != "" {
		provider, err := exec.NewProvider(cmd.OverrideExec)
		if err != nil {
			return nil, closers, cli.UsageErrorf("%s", err)
		}
		providers = append(providers, provider)
	}

	switch len(providers) {
	case 0:
		return nil, closers, nil
	case 1:
		return providers[0], closers, nil
	default:
		return graphiql.Chain(providers...), closers, nil
	}
}

func staticConfig(cfg graphiql.Config) graphiql.OverrideProvider {
	return graphiql.OverrideFunc(func(ctx context.Context, req *graphiql.Request) (graphiql.Config, error) {
		return cfg, nil
	})
}

func listOverrides(out io.Writer) error {
	list := make([]string, 0, len(overrides.Registry))
	for name := range overrides.Registry {
		list = append(list, name)
	}
	sort.Strings(list)

	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	for _, name := range list {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintln(w, "(exec via --override-exec)")
	return w.Flush()
}

func overrideHelp(out io.Writer, name string) error {
	source, ok := overrides.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown override source: %s; use --list-overrides to show valid sources", name)
	}

	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)

	fmt.Fprintf(w, "SOURCE: %s\n", strings.Join(source.Names, " "))
	fmt.Fprintln(w)

	if source.Description != "" {
		fmt.Fprintf(w, "DESCRIPTION:\n")
		fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(strings.TrimSpace(source.Description), "\n", "\n    "))
		fmt.Fprintln(w)
	}

	if source.OptionHelp != nil {
		fmt.Fprintf(w, "OPTIONS:\n")
		for _, h := range source.OptionHelp {
			fmt.Fprintf(w, "    %s\t%s\t%s\t\n", h.Name, h.Value, h.Description)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
