package graphiql

import (
	"bytes"
	"encoding/json"
	"strings"
)

const ContentType = "text/html; charset=utf-8"

const (
	AssetBase       = "//cdn.jsdelivr.net/npm"
	GraphiQLVersion = "0.11.11"
	ReactVersion    = "15.6.2"
	FetchVersion    = "2.0.3"
)

const (
	StylesheetURL     = AssetBase + "/graphiql@" + GraphiQLVersion + "/graphiql.css"
	GraphiQLScriptURL = AssetBase + "/graphiql@" + GraphiQLVersion + "/graphiql.min.js"
	ReactScriptURL    = AssetBase + "/react@" + ReactVersion + "/dist/react.min.js"
	ReactDOMScriptURL = AssetBase + "/react-dom@" + ReactVersion + "/dist/react-dom.min.js"
	FetchScriptURL    = AssetBase + "/whatwg-fetch@" + FetchVersion + "/fetch.min.js"
)

type documentData struct {
	StylesheetURL     string
	FetchScriptURL    string
	ReactScriptURL    string
	ReactDOMScriptURL string
	GraphiQLScriptURL string

	EndpointURL   scriptValue
	Query         scriptValue
	Variables     scriptValue
	Result        scriptValue
	OperationName scriptValue
}

// Render builds the console page for cfg. It has no side effects and the
// same cfg always produces the same document.
func Render(cfg Config) string {
	endpointURL := ""
	if cfg.EndpointURL != nil {
		endpointURL = *cfg.EndpointURL
	}

	data := documentData{
		StylesheetURL:     StylesheetURL,
		FetchScriptURL:    FetchScriptURL,
		ReactScriptURL:    ReactScriptURL,
		ReactDOMScriptURL: ReactDOMScriptURL,
		GraphiQLScriptURL: GraphiQLScriptURL,

		EndpointURL:   safeScriptValue(endpointURL),
		Query:         safeScriptValue(optionalString(cfg.Query)),
		Variables:     safeScriptValue(prettyJSON(cfg.Variables)),
		Result:        safeScriptValue(prettyJSON(cfg.Result)),
		OperationName: safeScriptValue(optionalString(cfg.OperationName)),
	}

	var sb strings.Builder
	if err := documentTemplate.Execute(&sb, data); err != nil {
		// The template is fixed and data holds only strings.
		panic(err)
	}
	return sb.String()
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// prettyJSON indents raw with two spaces, keeping the source key order. A
// missing, null or malformed value yields nil.
func prettyJSON(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil
	}
	return buf.String()
}
