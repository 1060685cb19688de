package domain

// DonorCandidate is a read-only projection of a donor record in the
// externally-owned donor store. It is a snapshot taken at query time; the
// underlying record may change or disappear afterwards.
type DonorCandidate struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	BloodGroup BloodType `json:"blood_group"`
	Location   string    `json:"location"`
	Available  bool      `json:"available"`
}
