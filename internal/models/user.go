package models

import (
	"strings"
	"time"
)

// Role is the access level the backend assigns to a user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleUser       Role = "usuario"
)

// ParseRole maps a backend role string to a Role. Unknown values fall back
// to the least privileged role.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return RoleAdmin
	case "supervisor":
		return RoleSupervisor
	default:
		return RoleUser
	}
}

// User is a dashboard account.
type User struct {
	ID           string    `json:"_id,omitempty"`
	Name         string    `json:"nombre"`
	Email        string    `json:"correo,omitempty"`
	Role         Role      `json:"rol"`
	Phone        string    `json:"telefono,omitempty"`
	RegisteredAt time.Time `json:"fechaRegistro,omitzero"`
}

func (n Normalizer) User(rec Record) User {
	return User{
		ID:           rec.String("_id", "id"),
		Name:         rec.String("nombre", "username", "email", "correo"),
		Email:        rec.String("correo", "email"),
		Role:         ParseRole(rec.String("rol", "role")),
		Phone:        rec.String("telefono", "celular"),
		RegisteredAt: rec.Time(n.location(), "fechaRegistro", "createdAt"),
	}
}

func (n Normalizer) Users(recs []Record) []User {
	out := make([]User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, n.User(rec))
	}
	return out
}

// ParseUser normalises a backend user object, reading zone-less dates as UTC.
func ParseUser(rec Record) User {
	return Normalizer{}.User(rec)
}
