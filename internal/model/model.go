package model

import (
	"errors"
	"strings"
	"time"
)

// Role is the closed set of principal roles. Anything else is rejected at
// the boundary instead of being stored as a free-form string.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", ErrInvalidRole
	}
}

// TicketStatus is restricted to open/closed; arbitrary status strings from
// clients are rejected.
type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

var ErrInvalidTicketStatus = errors.New("invalid ticket status")

func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch TicketStatus(strings.TrimSpace(strings.ToLower(raw))) {
	case TicketOpen:
		return TicketOpen, nil
	case TicketClosed:
		return TicketClosed, nil
	default:
		return "", ErrInvalidTicketStatus
	}
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ticket is a support request. The creator fields are snapshots taken from
// the authenticated identity at creation time and never change afterwards;
// CreatorID is a soft reference with no integrity enforcement.
type Ticket struct {
	ID          string
	Subject     string
	Message     string
	Status      TicketStatus
	CreatorID   string
	CreatorName string
	CreatorRole Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Course struct {
	ID           string
	Title        string
	Description  string
	Duration     int
	Instructor   string
	ThumbnailURL string
	ContentURL   string
	VideoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Student struct {
	ID               string
	Name             string
	Email            string
	EnrolledCourses  []string
	RegistrationDate time.Time
}

type Instructor struct {
	ID            string
	Name          string
	Email         string
	CoursesTaught []string
	CreatedAt     time.Time
}
