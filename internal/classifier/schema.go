package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
)

// errMissingResult rejects payloads without a string "result" field.
var errMissingResult = errors.New("response has no result field")

type remoteRequest struct {
	URL string `json:"url"`
}

// remoteResponse is the accepted shape of a classification answer. Optional
// fields may be absent or null; any other type mismatch rejects the payload.
type remoteResponse struct {
	Result          *string           `json:"result"`
	UsedMLModel     optional[bool]    `json:"usedMLModel"`
	IsZeroDay       optional[bool]    `json:"isZeroDay"`
	ModelVersion    optional[string]  `json:"modelVersion"`
	DetectionSource optional[string]  `json:"detectionSource"`
	ConfidenceScore optional[float64] `json:"confidenceScore"`
}

func decodeResponse(raw []byte) (*remoteResponse, error) {
	var r remoteResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.Result == nil {
		return nil, errMissingResult
	}
	return &r, nil
}

type optional[T any] struct {
	value T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

func (o optional[T]) orZero() T { return o.value }
