package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnassignedName is the display name a task carries while no user is assigned.
const UnassignedName = "unassigned"

type Task struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description" bson:"description"`
	Deadline         time.Time          `json:"deadline" bson:"deadline"`
	Completed        bool               `json:"completed" bson:"completed"`
	AssignedUser     string             `json:"assignedUser" bson:"assignedUser"`
	AssignedUserName string             `json:"assignedUserName" bson:"assignedUserName"`
	DateCreated      time.Time          `json:"dateCreated" bson:"dateCreated"`
}

// Validate checks the required task fields and aggregates every violation.
func (t *Task) Validate() error {
	return checkRules([]rule{
		{"name is required", func() bool { return t.Name == "" }},
		{"deadline is required", func() bool { return t.Deadline.IsZero() }},
	})
}

// ApplyDefaults fills the fields a creation request may omit. DateCreated is
// set once here and never mutated afterwards.
func (t *Task) ApplyDefaults() {
	if t.AssignedUserName == "" {
		t.AssignedUserName = UnassignedName
	}
	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().UTC()
	}
}
