// Package retention manages retention schedules and the nightly expiry scan
// that flags documents past their schedule.
package retention

import "time"

// Schedule defines how long documents are kept.
type Schedule struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	Name          string    `json:"name"`
	RetentionDays int       `json:"retention_days"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
