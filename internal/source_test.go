package graphiql

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLOptions(t *testing.T) {
	u, err := url.Parse("postgres://db.internal/app?table=saved&sslmode=disable")
	require.NoError(t, err)

	stripped, opts := URLOptions(u)
	assert.Equal(t, "postgres://db.internal/app", stripped.String())
	assert.Equal(t, "table=saved&sslmode=disable", u.RawQuery, "original URL is untouched")

	table, ok := opts.Pop("table")
	assert.True(t, ok)
	assert.Equal(t, "saved", table)

	_, ok = opts.Pop("table")
	assert.False(t, ok)

	assert.Equal(t, url.Values{"sslmode": {"disable"}}, opts.Values())
	assert.EqualError(t, opts.Done(), "unknown options: sslmode")

	opts.Pop("sslmode")
	assert.NoError(t, opts.Done())
}

func TestOptionsHelp(t *testing.T) {
	oh := OptionsHelp{}.
		Add("table", "<NAME>", "table to read").
		Add("param", "<NAME>", "request parameter")
	require.Len(t, oh, 2)
	assert.Equal(t, OptionHelp{Name: "param", Value: "<NAME>", Description: "request parameter"}, oh[1])
}
