package dtos

import "time"

// --- Controller envelope ----

type APIResponse struct {
	Status       string            `json:"status"`
	Message      string            `json:"message"`
	ResponseTime string            `json:"response_time"`
	Data         any               `json:"data,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
