package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isobit/graphiql-console/internal"
	"github.com/isobit/graphiql-console/internal/log"
)

const (
	DefaultTable = "graphiql_saved_queries"
	DefaultParam = "saved"
)

var Source = &graphiql.OverrideSource{
	Names: []string{"postgresql", "postgres"},
	Open:  Open,

	Description: `
Loads saved queries from a PostgreSQL table. When the console is opened with
?saved=<name>, the row with that name pre-populates the console. Requests
without the parameter, or naming a missing row, get no overrides.

Expected table:
	CREATE TABLE graphiql_saved_queries (
		name           text PRIMARY KEY,
		query          text,
		variables      jsonb,
		result         jsonb,
		operation_name text
	);

Other query string parameters are passed through to the connection string.

Examples:
	graphiql-console -o 'postgres://localhost/app?sslmode=disable&table=console.saved'
	`,
	OptionHelp: graphiql.OptionsHelp{}.
		Add("param", "<NAME>", "request parameter naming the saved query (default: saved)").
		Add("table", "<NAME>", "table holding saved queries (default: graphiql_saved_queries)"),
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Provider struct {
	db    querier
	param string
	sql   string
}

func Open(cfg graphiql.SourceConfig) (graphiql.OverrideProvider, error) {
	u, opts := graphiql.URLOptions(cfg.URL)

	table := DefaultTable
	if val, ok := opts.Pop("table"); ok && val != "" {
		table = val
	}
	param := DefaultParam
	if val, ok := opts.Pop("param"); ok && val != "" {
		param = val
	}
	u.RawQuery = opts.Values().Encode()

	pool, err := pgxpool.New(context.Background(), u.String())
	if err != nil {
		return nil, fmt.Errorf("error configuring postgres pool for %s: %w", u.Redacted(), err)
	}
	cc := pool.Config().ConnConfig
	log.Logf(0, "overrides: saved queries from %s:%d table %s", cc.Host, cc.Port, table)

	return NewProvider(pool, table, param), nil
}

func NewProvider(db querier, table string, param string) *Provider {
	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return &Provider{
		db:    db,
		param: param,
		sql: fmt.Sprintf(
			"SELECT query, variables::text, result::text, operation_name FROM %s WHERE name = $1",
			ident,
		),
	}
}

func (p *Provider) Override(ctx context.Context, req *graphiql.Request) (graphiql.Config, error) {
	name := req.Body[p.param]
	if name == "" {
		name = req.Query[p.param]
	}
	if name == "" {
		return graphiql.Config{}, nil
	}

	var query, variables, result, operationName *string
	log.Logf(10, "overrides: execute: %s [%s]", p.sql, name)
	err := p.db.QueryRow(ctx, p.sql, name).Scan(&query, &variables, &result, &operationName)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Logf(1, "overrides: no saved query named %q", name)
		return graphiql.Config{}, nil
	}
	if err != nil {
		return graphiql.Config{}, fmt.Errorf("error loading saved query %q: %w", name, err)
	}

	cfg := graphiql.Config{
		Query:         query,
		OperationName: operationName,
	}
	if variables != nil {
		if v, ok := graphiql.ParseStructured(*variables); ok && string(v) != "null" {
			cfg.Variables = v
		}
	}
	if result != nil {
		if v, ok := graphiql.ParseStructured(*result); ok && string(v) != "null" {
			cfg.Result = v
		}
	}
	return cfg, nil
}

func (p *Provider) Close() error {
	if c, ok := p.db.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
