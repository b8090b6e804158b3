package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Employee represents a department worker who resolves assigned issues.
// Department is free text ("water", "electricity", ...). The issues assigned
// to an employee are not stored here; the issue's assignedTo field is the
// authoritative relation and the list is computed by lookup.
type Employee struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Email      *string            `bson:"email,omitempty" json:"email,omitempty"`
	Phone      *string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Password   string             `bson:"password,omitempty" json:"-"`
	Department string             `bson:"department" json:"department"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (e *Employee) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.Password = string(hashed)
	return nil
}

func (e *Employee) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(candidate))
	return err == nil
}
