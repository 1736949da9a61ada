package model

import "time"

// SessionInfo describes a dashboard session and the dataset it currently owns.
type SessionInfo struct {
	ID             string    `json:"id"`
	Default        bool      `json:"default"`
	DatasetVersion string    `json:"dataset_version"`
	GeneratedAt    time.Time `json:"generated_at"`
	LastAccess     time.Time `json:"last_access"`
	Rows           int       `json:"rows"`
	MinDate        time.Time `json:"min_date"`
	MaxDate        time.Time `json:"max_date"`
}
