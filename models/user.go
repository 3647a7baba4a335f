package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PendingTasks []string           `json:"pendingTasks" bson:"pendingTasks"`
}

// Validate checks the required user fields and aggregates every violation.
func (u *User) Validate() error {
	return checkRules([]rule{
		{"name is required", func() bool { return u.Name == "" }},
		{"email is required", func() bool { return u.Email == "" }},
	})
}

// ApplyDefaults normalizes the fields a creation request may omit.
func (u *User) ApplyDefaults() {
	if u.PendingTasks == nil {
		u.PendingTasks = []string{}
	}
}
