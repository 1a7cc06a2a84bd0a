package graphiql

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseStructured parses s as JSON. Malformed or empty input is not an error,
// it just means there is no value.
func ParseStructured(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return nil, false
	}
	return json.RawMessage(s), true
}
