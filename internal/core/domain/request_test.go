package domain

import (
	"testing"
	"time"
)

func validInput() NewRequestInput {
	return NewRequestInput{
		PatientName:   "Jane Doe",
		BloodGroup:    "A+",
		Units:         2,
		HospitalName:  "City Hospital",
		Location:      "12 Main St",
		ContactNumber: "+31612345678",
		NeededDate:    time.Now().Add(24 * time.Hour),
	}
}

func TestNewRequestInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*NewRequestInput)
		wantField string
	}{
		{"valid", func(in *NewRequestInput) {}, ""},
		{"missing_patient_name", func(in *NewRequestInput) { in.PatientName = "  " }, "patient_name"},
		{"unknown_blood_group", func(in *NewRequestInput) { in.BloodGroup = "H+" }, "blood_group"},
		{"zero_units", func(in *NewRequestInput) { in.Units = 0 }, "units"},
		{"negative_units", func(in *NewRequestInput) { in.Units = -3 }, "units"},
		{"missing_hospital", func(in *NewRequestInput) { in.HospitalName = "" }, "hospital_name"},
		{"missing_location", func(in *NewRequestInput) { in.Location = "" }, "location"},
		{"missing_contact", func(in *NewRequestInput) { in.ContactNumber = "" }, "contact_number"},
		{"missing_needed_date", func(in *NewRequestInput) { in.NeededDate = time.Time{} }, "needed_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	for status, terminal := range map[Status]bool{
		StatusPending:   false,
		StatusAccepted:  false,
		StatusRejected:  true,
		StatusCompleted: true,
		StatusCancelled: true,
	} {
		if status.Terminal() != terminal {
			t.Errorf("Terminal(%s) = %v, want %v", status, status.Terminal(), terminal)
		}
	}
}
