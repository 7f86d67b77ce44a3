// Package companies manages the tenant registry. Every other record in the
// system hangs off a company ID.
package companies

import "time"

// Company represents a tenant.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
