package apimodels

type SummaryResponse struct {
	// The model's SOAP note, returned verbatim
	Conversation string `json:"conversation"`
}

// ServiceInfo is the descriptive payload served at the root path.
type ServiceInfo struct {
	CreatedBy   string `json:"Created By"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// TraceResponse is the legacy error body.
type TraceResponse struct {
	Trace string `json:"trace"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
