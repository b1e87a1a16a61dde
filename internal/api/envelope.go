package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion identifies the response envelope format for clients.
const envelopeVersion = 1

// DataEnvelope wraps successful response bodies.
type DataEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope wraps error response bodies.
type ErrorEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Error   any  `json:"error"`
}

// EnvelopeTransformer wraps every response body in a versioned envelope so
// clients can branch on `success` without sniffing the shape of the payload.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &ErrorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr,
		}, nil
	}

	success := len(status) > 0 && status[0] < '4'
	return &DataEnvelope{
		V:       envelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
