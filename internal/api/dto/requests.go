package dto

import "github.com/eshaffer321/payopt/internal/adapters/input"

// AllocationRequest is the body of POST /api/allocations. Records use the
// same shape and validation as the CLI input files.
type AllocationRequest struct {
	Orders  []input.OrderRecord  `json:"orders"`
	Methods []input.MethodRecord `json:"methods"`
}

// RunListParams represents query parameters for listing runs.
type RunListParams struct {
	Limit int `json:"limit"`
}

// DefaultRunListParams returns default values for run list params.
func DefaultRunListParams() RunListParams {
	return RunListParams{
		Limit: 20,
	}
}
