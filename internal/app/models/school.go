package models

import "time"

// School is the tenant. Every other entity carries its id directly or
// resolves to it transitively; queries must never cross school boundaries.
type School struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Motto     string    `json:"motto,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Campus is a physical site within a school
type Campus struct {
	ID       int64  `json:"id"`
	SchoolID int64  `json:"school_id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
}

// User is a staff account able to authenticate against the API
type User struct {
	ID        int64    `json:"id"`
	SchoolID  int64    `json:"school_id"`
	Email     string   `json:"email"`
	Password  string   `json:"-"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	RoleType  RoleType `json:"role_type"`
	IsActive  bool     `json:"is_active"`
}
