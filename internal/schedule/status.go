package schedule

// Status is the lifecycle phase of a competition relative to a given instant
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	// StatusUnknown marks a record whose schedule fields failed validation.
	// It is never produced by Resolver.Status, only by the display-safe wrappers.
	StatusUnknown Status = "unknown"
)

// ParseStatus converts a query-string value into a Status
func ParseStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusUpcoming, StatusLive, StatusCompleted, StatusUnknown:
		return Status(value), true
	default:
		return "", false
	}
}

// Rank orders statuses for competition listings: live first, then upcoming,
// then completed, with unknown records last.
func (s Status) Rank() int {
	switch s {
	case StatusLive:
		return 0
	case StatusUpcoming:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}

// String returns the status value
func (s Status) String() string {
	return string(s)
}
