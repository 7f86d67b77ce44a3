// Package correspondence tracks incoming and outgoing mail records per
// tenant. Each record gets a UUID reference on registration.
package correspondence

import "time"

// Directions a mail record can have.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Record represents a registered piece of correspondence.
type Record struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Reference    string    `json:"reference"`
	Direction    string    `json:"direction"`
	Subject      string    `json:"subject"`
	Counterparty string    `json:"counterparty"`
	RegisteredAt time.Time `json:"registered_at"`
	CreatedAt    time.Time `json:"created_at"`
}
