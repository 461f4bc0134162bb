package models

import "time"

// Organization is the multi-tenant root. Every project, task and comment
// traces back to exactly one organization through its parent chain.
type Organization struct {
	ID           int64     `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	ContactEmail string    `json:"contactEmail" bson:"contact_email"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}
