package models

import "github.com/google/uuid"

// Location defines a court where runs are held, based on the 'locations' table.
// Locations are seeded with fixed ids at startup so run rows keep valid
// references across deployments.
type Location struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Description *string   `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
}
