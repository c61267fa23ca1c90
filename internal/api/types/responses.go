package types

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusResponse is returned by the health probes.
type StatusResponse struct {
	Status string `json:"status"`
}

// ConnectorStatus is returned by GET /api/openrouter/config before the
// connector has ever been configured.
type ConnectorStatus struct {
	IsConnected bool `json:"isConnected"`
}
