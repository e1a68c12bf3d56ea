package gateway

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/webcode-dev/webcode/internal/event"
	"github.com/webcode-dev/webcode/pkg/types"
)

// Query keys of the callback protocol. Anything else on the callback URL
// is folded into the stored URI's query string.
const (
	paramRequestID = "vscode-requestId"
	paramScheme    = "vscode-scheme"
	paramAuthority = "vscode-authority"
	paramPath      = "vscode-path"
	paramQuery     = "vscode-query"
	paramFragment  = "vscode-fragment"
)

var wellKnownParams = map[string]bool{
	paramRequestID: true,
	paramScheme:    true,
	paramAuthority: true,
	paramPath:      true,
	paramQuery:     true,
	paramFragment:  true,
}

// CallbackBroker owns the requestId→URI mapping behind the redirect
// callback protocol. Entries are written by the browser's redirect landing
// and read exactly once by the out-of-band poller.
//
// There is deliberately no expiry: an unconsumed entry lives until the
// process exits. The protocol assumes one browser round trip per request
// id, and a duplicate registration (page reload) simply overwrites.
type CallbackBroker struct {
	mu      sync.Mutex
	pending map[string]types.URIComponents
}

// NewCallbackBroker creates an empty broker.
func NewCallbackBroker() *CallbackBroker {
	return &CallbackBroker{pending: make(map[string]types.URIComponents)}
}

// Register stores uri under requestID, unconditionally replacing any
// previous entry. Reports whether an entry was replaced.
func (b *CallbackBroker) Register(requestID string, uri types.URIComponents) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, replaced := b.pending[requestID]
	b.pending[requestID] = uri
	return replaced
}

// Consume removes and returns the entry for requestID. The second result
// is false when no entry exists; delivery is at-most-once.
func (b *CallbackBroker) Consume(requestID string) (types.URIComponents, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	uri, ok := b.pending[requestID]
	if ok {
		delete(b.pending, requestID)
	}
	return uri, ok
}

// Len reports the number of pending entries.
func (b *CallbackBroker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// handleCallback is the registration side: the browser lands here via a
// redirect carrying the URI to hand to the poller.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request, c *requestContext) {
	q := r.URL.Query()
	requestID := q.Get(paramRequestID)
	if requestID == "" {
		writePlain(w, http.StatusBadRequest, "Bad request")
		return
	}

	uri := types.URIComponents{
		Scheme:    q.Get(paramScheme),
		Authority: q.Get(paramAuthority),
		Path:      q.Get(paramPath),
		Query:     q.Get(paramQuery),
		Fragment:  q.Get(paramFragment),
	}
	if uri.Scheme == "" {
		uri.Scheme = s.product.URLProtocol
	}
	uri.Query = mergeExtraQuery(uri.Query, r.URL.RawQuery)

	replaced := s.callbacks.Register(requestID, uri)
	s.bus.Publish(event.CallbackRegistered, event.CallbackRegisteredData{
		RequestID: requestID,
		URI:       uri,
		Replaced:  replaced,
	})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	w.Write(s.assets.callbackPage)
}

// handleFetchCallback is the consumption side: a single best-effort check,
// callers retry externally.
func (s *Server) handleFetchCallback(w http.ResponseWriter, r *http.Request, c *requestContext) {
	requestID := r.URL.Query().Get(paramRequestID)
	if requestID == "" {
		writePlain(w, http.StatusBadRequest, "Bad request")
		return
	}

	uri, ok := s.callbacks.Consume(requestID)
	s.bus.Publish(event.CallbackConsumed, event.CallbackConsumedData{
		RequestID: requestID,
		Found:     ok,
	})

	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, uri)
}

// mergeExtraQuery appends every query pair whose key is not part of the
// callback protocol onto base, preserving encounter order. Pairs are
// decoded before appending; base already is (it comes from a decoded
// vscode-query value), so the stored query stays in one representation.
func mergeExtraQuery(base, rawQuery string) string {
	parts := []string{}
	if base != "" {
		parts = append(parts, base)
	}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value := pair, ""
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key, value = pair[:i], pair[i+1:]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if wellKnownParams[key] {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, "&")
}
