package graphiql

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"github.com/tinylib/msgp/msgp"

	"github.com/isobit/graphiql-console/internal/log"
)

const MaxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// Fields is a flattened view of a request body or query string. Only the
// first value of a repeated key is kept.
type Fields map[string]string

// Request is the part of an incoming HTTP request the console cares about.
// Body is nil when the request carried no body that could be read.
type Request struct {
	Body  Fields
	Query Fields
	HTTP  *http.Request
}

func ReadRequest(r *http.Request) *Request {
	req := &Request{
		Query: firstValues(r.URL.Query()),
		HTTP:  r,
	}
	if !hasBody(r) {
		return req
	}
	body, err := readBody(r)
	if err != nil {
		log.Logf(1, "ignoring request body: %s", err)
		return req
	}
	req.Body = body
	return req
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	return r.Body != nil && r.Body != http.NoBody && r.Header.Get("Content-Type") != ""
}

func readBody(r *http.Request) (Fields, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("error parsing content type: %w", err)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("error parsing form: %w", err)
		}
		return firstValues(r.PostForm), nil

	case "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("error parsing multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()
		return firstValues(r.PostForm), nil

	case "application/json":
		data, err := readAllLimited(r.Body)
		if err != nil {
			return nil, err
		}
		return jsonFields(data)

	case "application/msgpack", "application/x-msgpack":
		data, err := readAllLimited(r.Body)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if _, err := msgp.UnmarshalAsJSON(&buf, data); err != nil {
			return nil, fmt.Errorf("error unmarshaling msgpack as JSON: %w", err)
		}
		return jsonFields(buf.Bytes())

	default:
		return nil, fmt.Errorf("unsupported content type: %s", mediaType)
	}
}

func readAllLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// jsonFields keeps string members as-is and objects/arrays as their raw JSON
// text, so a body like {"variables": {"id": 1}} still yields variables.
func jsonFields(data []byte) (Fields, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON body")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("JSON body is not an object")
	}
	fields := Fields{}
	doc.ForEach(func(key, value gjson.Result) bool {
		switch {
		case value.Type == gjson.String:
			fields[key.String()] = value.String()
		case value.IsObject(), value.IsArray():
			fields[key.String()] = value.Raw
		}
		return true
	})
	return fields, nil
}

func firstValues(values url.Values) Fields {
	fields := make(Fields, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			fields[key] = vals[0]
		}
	}
	return fields
}
