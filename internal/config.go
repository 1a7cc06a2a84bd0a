package graphiql

import (
	"bytes"
	"encoding/json"
)

// Config holds everything used to pre-populate the console. Every field is
// optional: a nil pointer or nil RawMessage means the value was not supplied.
type Config struct {
	EndpointURL   *string         `json:"endpointUrl,omitempty"`
	Query         *string         `json:"query,omitempty"`
	Variables     json.RawMessage `json:"variables,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
	OperationName *string         `json:"operationName,omitempty"`
}

// Merge returns c with every field that is set in o replaced by o's value.
// Structured values are replaced whole, never merged.
func (c Config) Merge(o Config) Config {
	if o.EndpointURL != nil {
		c.EndpointURL = o.EndpointURL
	}
	if o.Query != nil {
		c.Query = o.Query
	}
	if o.Variables != nil {
		c.Variables = o.Variables
	}
	if o.Result != nil {
		c.Result = o.Result
	}
	if o.OperationName != nil {
		c.OperationName = o.OperationName
	}
	return c
}

// UnmarshalJSON treats null the same as a missing key for every field, so a
// decoded override never clears a value.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Config(p)
	c.Variables = dropNull(c.Variables)
	c.Result = dropNull(c.Result)
	return nil
}

func dropNull(raw json.RawMessage) json.RawMessage {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

func String(s string) *string {
	return &s
}
