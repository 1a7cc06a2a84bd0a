package graphiql

import (
	"bytes"
	"encoding/json"
	"strings"
)

// scriptValue is text that is safe to place directly into inline script
// source. Only SafeSerialize produces one.
type scriptValue string

var scriptEscaper = strings.NewReplacer(
	"/", `\/`,
	"<!--", `\u003c!--`,
)

// SafeSerialize renders v as a JavaScript expression that can be embedded in
// a <script> block. A nil v becomes the bareword undefined. Forward slashes
// are escaped so the text can never contain "</script>", and "<!--" is
// escaped so it cannot switch the HTML parser into script comment state.
func SafeSerialize(v any) string {
	if v == nil {
		return "undefined"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "undefined"
	}
	return scriptEscaper.Replace(strings.TrimSuffix(buf.String(), "\n"))
}

func safeScriptValue(v any) scriptValue {
	return scriptValue(SafeSerialize(v))
}
