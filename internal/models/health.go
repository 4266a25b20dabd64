package models

// IntegrationStatus describes one vendor integration on /health.
type IntegrationStatus struct {
	Configured bool   `json:"configured"`
	Available  *bool  `json:"available,omitempty"` // only set when probed
	Error      string `json:"error,omitempty"`
}

// HealthReport is the body of GET /health.
type HealthReport struct {
	Status       string                       `json:"status"`
	Integrations map[string]IntegrationStatus `json:"integrations"`
}
