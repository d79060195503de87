package domain

import "time"

// Group is a community of users that listings can be posted into.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedBy    string    `json:"createdBy"`
	CreatorName  string    `json:"creatorName"`
	CreatorEmail string    `json:"creatorEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}
