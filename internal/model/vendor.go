package model

import "time"

// Vendor is a monitored third-party provider.
type Vendor struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Website    string    `json:"website"`
	RootDomain string    `json:"root_domain"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
