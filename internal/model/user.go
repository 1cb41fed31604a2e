package model

import "time"

// Student represents a student account.
type Student struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName joins first and last name, tolerating either being empty.
func (s *Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Staff represents a staff account. Each staff member owns exactly one module
// and may only read results for exams in that module.
type Staff struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	ModuleID     int       `json:"module_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName joins first and last name, tolerating either being empty.
func (s *Staff) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// LoginRequest is the payload for student and staff authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=150"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}
