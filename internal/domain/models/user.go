// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by UKMHub.
const (
	RoleAdmin      = "admin"
	RoleStudent    = "student"
	RoleChair      = "chair"
	RoleSecretary  = "secretary"
	RoleSupervisor = "supervisor"
)

// OfficerRoles are the roles whose club affiliation is carried on the club
// document itself (chair_id / secretary_id / supervisor_id). Students are
// affiliated transitively through the memberships collection instead.
var OfficerRoles = []string{RoleChair, RoleSecretary, RoleSupervisor}

// IsOfficerRole reports whether role is one of the club officer roles.
func IsOfficerRole(role string) bool {
	return role == RoleChair || role == RoleSecretary || role == RoleSupervisor
}

// User represents admins, club officers, and students.
//
// NOTE:
//   - Club affiliation is not embedded on User. Officers are discovered
//     through the officer-reference fields on the clubs collection; students
//     through the memberships collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	Role         string             `bson:"role" json:"role"`
	Faculty      string             `bson:"faculty,omitempty" json:"faculty,omitempty"`
	Department   string             `bson:"department,omitempty" json:"department,omitempty"`
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
