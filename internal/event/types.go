package event

import "github.com/webcode-dev/webcode/pkg/types"

// CallbackRegisteredData accompanies callback.registered events.
type CallbackRegisteredData struct {
	RequestID string              `json:"requestId"`
	URI       types.URIComponents `json:"uri"`
	Replaced  bool                `json:"replaced"`
}

// CallbackConsumedData accompanies callback.consumed events.
type CallbackConsumedData struct {
	RequestID string `json:"requestId"`
	Found     bool   `json:"found"`
}

// RequestRejectedData accompanies request.rejected events.
type RequestRejectedData struct {
	Path   string `json:"path"`
	Status int    `json:"status"`
	Reason string `json:"reason"`
}
