package program

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// program lifecycle statuses as stored in the backend
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// application statuses
const (
	ApplicationReceived = "received"
	ApplicationAccepted = "accepted"
	ApplicationDeclined = "declined"
)

type Program struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Summary     null.String `json:"summary"`
	Status      string      `json:"status"`
	StartDate   time.Time   `json:"start_date"`
	Deadline    null.Time   `json:"deadline"`
	IsResidency bool        `json:"is_residency"`
}

type Application struct {
	ID         string    `json:"id"`
	ProgramID  string    `json:"program_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Motivation string    `json:"motivation"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type NewApplication struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,e164"`
	Motivation string `json:"motivation" validate:"required,min=40"`
}
