package domain

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a blood request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusCancelled
}

// Request is a single blood need. It is owned by the lifecycle service and is
// mutated only through status-guarded conditional updates.
type Request struct {
	ID            string    `json:"id"`
	RequesterID   string    `json:"requester_id"`
	DonorID       string    `json:"donor_id,omitempty"`
	PatientName   string    `json:"patient_name"`
	BloodGroup    BloodType `json:"blood_group"`
	Units         int       `json:"units"`
	HospitalName  string    `json:"hospital_name"`
	Location      string    `json:"location"`
	ContactNumber string    `json:"contact_number"`
	NeededDate    time.Time `json:"needed_date"`
	IsEmergency   bool      `json:"is_emergency"`
	Status        Status    `json:"status"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewRequestInput carries the caller-supplied fields of a request.
type NewRequestInput struct {
	PatientName   string    `json:"patient_name"`
	BloodGroup    string    `json:"blood_group"`
	Units         int       `json:"units"`
	HospitalName  string    `json:"hospital_name"`
	Location      string    `json:"location"`
	ContactNumber string    `json:"contact_number"`
	NeededDate    time.Time `json:"needed_date"`
	IsEmergency   bool      `json:"is_emergency"`
	Note          string    `json:"note"`
}

// Validate checks the field constraints a request must satisfy before it can
// be persisted. It returns a ValidationError naming the first offending field.
func (in NewRequestInput) Validate() error {
	if strings.TrimSpace(in.PatientName) == "" {
		return &ValidationError{Field: "patient_name", Reason: "patient name is required"}
	}
	if _, ok := ParseBloodType(in.BloodGroup); !ok {
		return &ValidationError{Field: "blood_group", Reason: "unknown blood group"}
	}
	if in.Units < 1 {
		return &ValidationError{Field: "units", Reason: "at least one unit is required"}
	}
	if strings.TrimSpace(in.HospitalName) == "" {
		return &ValidationError{Field: "hospital_name", Reason: "hospital name is required"}
	}
	if strings.TrimSpace(in.Location) == "" {
		return &ValidationError{Field: "location", Reason: "location is required"}
	}
	if strings.TrimSpace(in.ContactNumber) == "" {
		return &ValidationError{Field: "contact_number", Reason: "contact number is required"}
	}
	if in.NeededDate.IsZero() {
		return &ValidationError{Field: "needed_date", Reason: "needed date is required"}
	}
	return nil
}

// RequestFilter narrows List results. Nil fields are ignored.
type RequestFilter struct {
	Status      *Status
	IsEmergency *bool
	// ExcludeCompleted keeps the default listing to active requests.
	ExcludeCompleted bool
}
