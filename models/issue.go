package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory is free text ("road", "water", ...). Only the default is
// fixed; reporters may file under any label they like.
type IssueCategory string

const Other IssueCategory = "Other"

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "pending"
	InProgress IssueStatus = "in-progress"
	Resolved   IssueStatus = "resolved"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case Pending, InProgress, Resolved:
		return true
	}
	return false
}

// Issue represents a problem reported by a citizen. Assigned is derived
// state: it must equal (AssignedTo != nil) after every transition.
type Issue struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CitizenID   primitive.ObjectID  `bson:"citizenId" json:"citizenId"`
	Description string              `bson:"description" json:"description"`
	Location    string              `bson:"location" json:"location"`
	Category    IssueCategory       `bson:"category" json:"category"`
	ImageURL    string              `bson:"imageUrl" json:"imageUrl"`
	Status      IssueStatus         `bson:"status" json:"status"`
	Assigned    bool                `bson:"assigned" json:"assigned"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
