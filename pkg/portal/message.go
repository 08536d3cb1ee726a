package portal

import (
	"encoding/json"

	"github.com/objectstack/portal/pkg/wire"
)

// callRequest is the proxy-to-handler message. Args carries its own format
// tag, so a handler configured differently still decodes correctly.
type callRequest struct {
	Entity string         `json:"entity"`
	Kind   string         `json:"kind"`
	Arity  int            `json:"arity"`
	Args   *wire.Envelope `json:"args"`
}

const (
	statusOK     = "ok"
	statusDenied = "denied"
	statusFailed = "failed"
)

// callResponse is the handler-to-proxy message. Denials and operation
// failures are regular responses; only transport faults surface as transport
// errors.
type callResponse struct {
	Format  wire.Format     `json:"format"`
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

func failedResponse(f wire.Format, err error) callResponse {
	return callResponse{Format: f, Status: statusFailed, Error: err.Error()}
}

func deniedResponse(f wire.Format, message string) callResponse {
	return callResponse{Format: f, Status: statusDenied, Message: message}
}
