package util

import (
	"net/http"
	"sort"
	"strings"

	"github.com/isobit/graphiql-console/internal/log"
)

var redactedHeaders = map[string]bool{
	"Authorization":       true,
	"Cookie":              true,
	"Proxy-Authorization": true,
	"Set-Cookie":          true,
}

func SortedHeaderKeys(header http.Header) []string {
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func LogHeaders(prefix string, header http.Header) {
	for _, key := range SortedHeaderKeys(header) {
		if redactedHeaders[http.CanonicalHeaderKey(key)] {
			log.Logf(1, "%s%s: <redacted>", prefix, key)
			continue
		}
		log.Logf(1, "%s%s: %s", prefix, key, strings.Join(header[key], ", "))
	}
}
