package domain

import (
	"encoding/json"
	"strings"
)

// TrackingStatus represents the current global status of a shipment.
type TrackingStatus string

const (
	// TrackingStatusUnknown indicates the courier reported nothing we can classify.
	TrackingStatusUnknown TrackingStatus = "UNKNOWN"
	// TrackingStatusInTransit indicates the shipment was dispatched and is moving.
	TrackingStatusInTransit TrackingStatus = "IN_TRANSIT"
	// TrackingStatusOutForDelivery indicates the shipment is with the delivery agent.
	TrackingStatusOutForDelivery TrackingStatus = "OUT_FOR_DELIVERY"
	// TrackingStatusDelivered indicates the shipment has been delivered.
	TrackingStatusDelivered TrackingStatus = "DELIVERED"
	// TrackingStatusException indicates a failed attempt, return or cancellation.
	TrackingStatusException TrackingStatus = "EXCEPTION"
)

// Checkpoint is one event in a shipment's journey.
type Checkpoint struct {
	Time            string `json:"Time,omitempty"`
	Date            string `json:"Date,omitempty"`
	Location        string `json:"Location,omitempty"`
	Activity        string `json:"Activity,omitempty"`
	CourierName     string `json:"CourierName,omitempty"`
	CheckpointState string `json:"CheckpointState,omitempty"`
}

// CourierResponse is the checkpoint payload returned by the courier service.
// It is passed through untouched: marshalling emits the bytes it was parsed from.
type CourierResponse struct {
	Result           string       `json:"Result,omitempty"`
	TrackingNumber   string       `json:"TrackingNumber,omitempty"`
	MostRecentStatus string       `json:"MostRecentStatus,omitempty"`
	ShipmentState    string       `json:"ShipmentState,omitempty"`
	CourierSlug      string       `json:"CourierSlug,omitempty"`
	AdditionalInfo   string       `json:"AdditionalInfo,omitempty"`
	Checkpoints      []Checkpoint `json:"Checkpoints,omitempty"`

	raw json.RawMessage
}

// courierResponseFields breaks the UnmarshalJSON recursion.
type courierResponseFields CourierResponse

// UnmarshalJSON decodes the typed view and keeps the original document.
func (r *CourierResponse) UnmarshalJSON(data []byte) error {
	var fields courierResponseFields
	// The upstream occasionally returns non-object payloads; keep them raw.
	if err := json.Unmarshal(data, &fields); err != nil {
		if !json.Valid(data) {
			return err
		}
		fields = courierResponseFields{}
	}
	*r = CourierResponse(fields)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original document when available.
func (r CourierResponse) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(courierResponseFields(r))
}

// Status classifies MostRecentStatus (or ShipmentState) into a TrackingStatus.
func (r *CourierResponse) Status() TrackingStatus {
	raw := r.MostRecentStatus
	if strings.TrimSpace(raw) == "" {
		raw = r.ShipmentState
	}
	return ClassifyStatus(raw)
}

// ClassifyStatus maps a free-text courier status to a TrackingStatus.
func ClassifyStatus(raw string) TrackingStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return TrackingStatusUnknown
	case strings.Contains(s, "out for delivery"):
		return TrackingStatusOutForDelivery
	case strings.Contains(s, "undeliver"),
		strings.Contains(s, "failed"),
		strings.Contains(s, "return"),
		strings.Contains(s, "rto"),
		strings.Contains(s, "cancel"):
		return TrackingStatusException
	case strings.Contains(s, "deliver"):
		return TrackingStatusDelivered
	case strings.Contains(s, "in transit"),
		strings.Contains(s, "dispatch"),
		strings.Contains(s, "shipped"),
		strings.Contains(s, "picked"),
		strings.Contains(s, "booked"):
		return TrackingStatusInTransit
	default:
		return TrackingStatusUnknown
	}
}

// TrackingResult is the outcome of tracking one doc id.
// OK selects which of Data or Error is meaningful.
type TrackingResult struct {
	DocID           string           `json:"docId"`
	OK              bool             `json:"ok"`
	Data            *CourierResponse `json:"data,omitempty"`
	Error           string           `json:"error,omitempty"`
	Status          TrackingStatus   `json:"status,omitempty"`
	TableKeyDefault bool             `json:"tableKeyDefault,omitempty"`
}

// NewSuccessResult wraps a courier response for docID.
func NewSuccessResult(docID string, data *CourierResponse, tableKeyDefault bool) TrackingResult {
	res := TrackingResult{
		DocID:           docID,
		OK:              true,
		Data:            data,
		Status:          TrackingStatusUnknown,
		TableKeyDefault: tableKeyDefault,
	}
	if data != nil {
		res.Status = data.Status()
	}
	return res
}

// NewFailureResult records the error that stopped docID from being tracked.
func NewFailureResult(docID string, err error) TrackingResult {
	return TrackingResult{
		DocID: docID,
		OK:    false,
		Error: err.Error(),
	}
}
