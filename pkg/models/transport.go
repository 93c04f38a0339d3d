package models

// InfoResponse describes the running service
type InfoResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Model   string `json:"model"`
	Device  string `json:"device"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status       string `json:"status"`
	Model        string `json:"model"`
	Device       string `json:"device"`
	GPUAvailable bool   `json:"gpu_available"`
}

// StatsResponse reports the request counters. Times are in seconds.
type StatsResponse struct {
	Total               int64   `json:"total"`
	Success             int64   `json:"success"`
	Failed              int64   `json:"failed"`
	TotalProcessingTime float64 `json:"total_processing_time"`
	AvgProcessingTime   float64 `json:"avg_processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type"`
	Message string `json:"message"`
}
