package graphiql

import (
	"io"
	"net/http"

	"github.com/isobit/graphiql-console/internal/log"
)

// Handler serves the console page. It keeps no state between requests.
type Handler struct {
	Resolver     Resolver
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

func NewHandler(override OverrideProvider) *Handler {
	return &Handler{
		Resolver: Resolver{Override: override},
	}
}

// Serve resolves the console options for r and writes the rendered page. If
// the override provider fails, nothing is written and its error is returned.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) error {
	cfg, err := h.Resolver.Resolve(r.Context(), ReadRequest(r))
	if err != nil {
		return err
	}
	doc := Render(cfg)

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := io.WriteString(w, doc); err != nil {
		log.Logf(1, "error writing response body: %s", err)
	}
	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if err := h.Serve(w, r); err != nil {
		errorHandler := h.ErrorHandler
		if errorHandler == nil {
			errorHandler = defaultErrorHandler
		}
		errorHandler(w, r, err)
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	log.Logf(-1, "error serving %s %s: %s", r.Method, r.URL, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
