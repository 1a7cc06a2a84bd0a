package graphiql

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOverrideWinsPerField(t *testing.T) {
	defaults := Config{
		Query:     String("A"),
		Variables: json.RawMessage(`{"a":1}`),
	}
	merged := defaults.Merge(Config{
		Query:         String("C"),
		OperationName: String("Op"),
	})

	require.NotNil(t, merged.Query)
	assert.Equal(t, "C", *merged.Query)
	assert.Equal(t, json.RawMessage(`{"a":1}`), merged.Variables)
	require.NotNil(t, merged.OperationName)
	assert.Equal(t, "Op", *merged.OperationName)
	assert.Nil(t, merged.EndpointURL)
	assert.Nil(t, merged.Result)

	// The receiver is not modified.
	assert.Equal(t, "A", *defaults.Query)
	assert.Nil(t, defaults.OperationName)
}

func TestMergeReplacesStructuredValuesWhole(t *testing.T) {
	merged := Config{Variables: json.RawMessage(`{"a":1,"b":2}`)}.
		Merge(Config{Variables: json.RawMessage(`{"c":3}`)})
	assert.Equal(t, json.RawMessage(`{"c":3}`), merged.Variables)
}

func TestMergeEmptyOverride(t *testing.T) {
	defaults := Config{Query: String("A"), Result: json.RawMessage(`[]`)}
	assert.Equal(t, defaults, defaults.Merge(Config{}))
}

func TestConfigJSON(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{
		"endpointUrl": "/graphql",
		"query": "{ me { id } }",
		"variables": {"id": 1},
		"operationName": "Me"
	}`), &cfg)
	require.NoError(t, err)

	require.NotNil(t, cfg.EndpointURL)
	assert.Equal(t, "/graphql", *cfg.EndpointURL)
	require.NotNil(t, cfg.Query)
	assert.Equal(t, "{ me { id } }", *cfg.Query)
	assert.JSONEq(t, `{"id": 1}`, string(cfg.Variables))
	assert.Nil(t, cfg.Result)
	require.NotNil(t, cfg.OperationName)
	assert.Equal(t, "Me", *cfg.OperationName)
}

func TestConfigJSONNullKeepsDefaults(t *testing.T) {
	var override Config
	err := json.Unmarshal([]byte(`{
		"query": null,
		"variables": null,
		"result": null,
		"operationName": null
	}`), &override)
	require.NoError(t, err)
	assert.Equal(t, Config{}, override)

	defaults := Config{
		Query:         String("{ a }"),
		Variables:     json.RawMessage(`{"id": 1}`),
		Result:        json.RawMessage(`[]`),
		OperationName: String("A"),
	}
	assert.Equal(t, defaults, defaults.Merge(override))
}
