package enums

import "fmt"

// ReservationStatus is the lifecycle tag carried by each reservation. It is a
// plain tag rather than an enforced state machine; the availability engine
// gives each value its own blocking rule.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusDelivered ReservationStatus = "delivered"
	ReservationStatusOverdue   ReservationStatus = "overdue"
	ReservationStatusReturned  ReservationStatus = "returned"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusArchived  ReservationStatus = "archived"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusActive,
	ReservationStatusDelivered,
	ReservationStatusOverdue,
	ReservationStatusReturned,
	ReservationStatusCancelled,
	ReservationStatusCompleted,
	ReservationStatusArchived,
}

// IsValid reports whether the value matches the canonical reservation status enum.
func (r ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReservationStatus converts the raw string to ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
