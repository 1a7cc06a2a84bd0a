package graphiql

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderAllAbsent(t *testing.T) {
	doc := Render(Config{})

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>\n<html>"))
	assert.True(t, strings.HasSuffix(doc, "</html>\n"))
	assert.Contains(t, doc, "var fetchURL = \"\" + locationQuery(otherParams);")
	assert.Contains(t, doc, "query: undefined,\n")
	assert.Contains(t, doc, "response: undefined,\n")
	assert.Contains(t, doc, "variables: undefined,\n")
	assert.Contains(t, doc, "operationName: undefined\n")
}

func TestRenderValues(t *testing.T) {
	doc := Render(Config{
		EndpointURL:   String("https://api.example.com/graphql"),
		Query:         String("query Me { me { id } }"),
		Variables:     json.RawMessage(`{"a":1}`),
		Result:        json.RawMessage(`{"data":{"me":null}}`),
		OperationName: String("Me"),
	})

	assert.Contains(t, doc, `var fetchURL = "https:\/\/api.example.com\/graphql" + locationQuery(otherParams);`)
	assert.Contains(t, doc, `query: "query Me { me { id } }",`)
	assert.Contains(t, doc, `variables: "{\n  \"a\": 1\n}",`)
	assert.Contains(t, doc, `response: "{\n  \"data\": {\n    \"me\": null\n  }\n}",`)
	assert.Contains(t, doc, `operationName: "Me"`)
}

func TestRenderPrettyPrintKeepsKeyOrder(t *testing.T) {
	doc := Render(Config{Variables: json.RawMessage(`{"z":[1,2],"a":{}}`)})
	assert.Contains(t, doc, `variables: "{\n  \"z\": [\n    1,\n    2\n  ],\n  \"a\": {}\n}",`)
}

func TestRenderStructuredNullIsAbsent(t *testing.T) {
	doc := Render(Config{Variables: json.RawMessage(`null`), Result: json.RawMessage(` null `)})
	assert.Contains(t, doc, "variables: undefined,\n")
	assert.Contains(t, doc, "response: undefined,\n")
}

func TestRenderMalformedStructuredIsAbsent(t *testing.T) {
	doc := Render(Config{Result: json.RawMessage(`{"a":`)})
	assert.Contains(t, doc, "response: undefined,\n")
}

func TestRenderEscapesScriptClose(t *testing.T) {
	empty := Render(Config{})
	closes := strings.Count(empty, "</script>")

	doc := Render(Config{
		EndpointURL:   String("</script><script>alert(1)</script>"),
		Query:         String("</script><script>alert(2)</script>"),
		Variables:     json.RawMessage(`{"x":"</script>"}`),
		Result:        json.RawMessage(`["</script>"]`),
		OperationName: String("</script>"),
	})

	assert.Equal(t, closes, strings.Count(doc, "</script>"))
	assert.Contains(t, doc, `query: "<\/script><script>alert(2)<\/script>",`)
	assert.Contains(t, doc, `variables: "{\n  \"x\": \"<\/script>\"\n}",`)
	assert.Contains(t, doc, `response: "[\n  \"<\/script>\"\n]",`)
	assert.Contains(t, doc, `operationName: "<\/script>"`)
}

func TestRenderAssets(t *testing.T) {
	doc := Render(Config{})

	assert.Equal(t, 1, strings.Count(doc, `<link href="`+StylesheetURL+`" rel="stylesheet" />`))
	assert.Equal(t, 1, strings.Count(doc, `<script src="`+GraphiQLScriptURL+`"></script>`))
	assert.Equal(t, 1, strings.Count(doc, `<script src="`+ReactScriptURL+`"></script>`))
	assert.Equal(t, 1, strings.Count(doc, `<script src="`+ReactDOMScriptURL+`"></script>`))
	assert.Equal(t, 1, strings.Count(doc, `<script src="`+FetchScriptURL+`"></script>`))

	assert.Equal(t, 1, strings.Count(doc, "graphiql.css"))
	assert.Equal(t, 1, strings.Count(doc, "graphiql.min.js"))
	assert.Equal(t, 2, strings.Count(doc, "/graphiql@"+GraphiQLVersion+"/"))
	assert.Equal(t, 2, strings.Count(doc, "@"+ReactVersion+"/"))
}

func TestRenderDeterministic(t *testing.T) {
	cfg := Config{
		Query:     String("{ a }"),
		Variables: json.RawMessage(`{"b":2,"a":1}`),
	}
	assert.Equal(t, Render(cfg), Render(cfg))
}
