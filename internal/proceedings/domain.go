// Package proceedings manages case files and their archive-box assignment.
// Attaching a proceeding to an archive box is a separately gated action.
package proceedings

import "time"

// Proceeding statuses.
const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusArchived = "archived"
)

// Proceeding represents a case file.
type Proceeding struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	BoxID     *int64    `json:"box_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
