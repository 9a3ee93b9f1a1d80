package model

import "time"

// WebhookEvent represents one inbound pipeline-execution event
type WebhookEvent struct {
	ID         string    // Request ID assigned by the HTTP layer
	ReceivedAt time.Time // Time when the event was received
	RawPayload []byte    // Raw JSON payload, already signature-verified
}
