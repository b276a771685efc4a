package entity

import (
	"strings"
	"time"
)

// Lead is a locally-owned sales prospect. This subsystem reads leads to build
// contact payloads for CRM providers; it never mutates them.
type Lead struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization,omitempty"`
	Role         string    `json:"role,omitempty"`
	Website      string    `json:"website,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SplitName returns the lead's first and last name. Everything after the
// first space is treated as the last name.
func (l *Lead) SplitName() (first, last string) {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
