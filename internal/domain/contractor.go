package domain

// Contractor is read-only for this subsystem; availability is authoritative
// state owned by contractor management and consumed here as a filter.
type Contractor struct {
	ID           string
	OrgID        string
	FullName     string
	Skills       []string
	Location     string
	Availability AvailabilityStatus
	HourlyRate   *float64
	// Rating defaults to 0 when the contractor has never been rated.
	Rating float64
	Phone  string
}
