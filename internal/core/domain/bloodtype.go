package domain

// BloodType is an ABO/Rh blood group.
type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// compatibleDonors maps a patient's blood group to the groups that may donate
// to it, per standard ABO/Rh donor-compatibility rules.
// source: https://www.redcrossblood.org/donate-blood/blood-types.html
var compatibleDonors = map[BloodType][]BloodType{
	ONegative:  {ONegative},
	OPositive:  {OPositive, ONegative},
	ANegative:  {ANegative, ONegative},
	APositive:  {APositive, ANegative, OPositive, ONegative},
	BNegative:  {BNegative, ONegative},
	BPositive:  {BPositive, BNegative, OPositive, ONegative},
	ABNegative: {ABNegative, ANegative, BNegative, ONegative},
	ABPositive: {ABPositive, ABNegative, APositive, ANegative, BPositive, BNegative, OPositive, ONegative},
}

// ParseBloodType validates a raw blood group string.
func ParseBloodType(s string) (BloodType, bool) {
	bt := BloodType(s)
	_, ok := compatibleDonors[bt]
	return bt, ok
}

// CompatibleDonorTypes returns the blood groups eligible to donate to a
// patient of the given group. Unknown input yields an empty set rather than
// an error so that malformed upstream data degrades to "no matches".
func CompatibleDonorTypes(patient BloodType) []BloodType {
	donors, ok := compatibleDonors[patient]
	if !ok {
		return nil
	}
	out := make([]BloodType, len(donors))
	copy(out, donors)
	return out
}

// CanDonate reports whether a donor of group donor may give blood to a
// patient of group patient.
func CanDonate(donor, patient BloodType) bool {
	for _, t := range compatibleDonors[patient] {
		if t == donor {
			return true
		}
	}
	return false
}
