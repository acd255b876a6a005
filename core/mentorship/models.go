package mentorship

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// request statuses
const (
	RequestPending = "pending"
	RequestMatched = "matched"
	RequestClosed  = "closed"
)

type Mentor struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	FocusArea string      `json:"focus_area"`
	Bio       null.String `json:"bio"`
	Capacity  int         `json:"capacity"`
	Active    bool        `json:"active"`
}

type Request struct {
	ID          string    `json:"id"`
	MenteeName  string    `json:"mentee_name"`
	MenteeEmail string    `json:"mentee_email"`
	FocusArea   string    `json:"focus_area"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Match struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	MentorID  string    `json:"mentor_id"`
	CreatedAt time.Time `json:"created_at"`
}

type NewRequest struct {
	MenteeName  string `json:"mentee_name" validate:"required"`
	MenteeEmail string `json:"mentee_email" validate:"required,email"`
	FocusArea   string `json:"focus_area" validate:"required"`
}
