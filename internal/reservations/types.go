package reservations

// CreateParams carries the raw inputs of a create request. Timestamps stay
// strings until the interval model validates them.
type CreateParams struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

// ListParams carries the optional list-filter bounds.
type ListParams struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CancelParams identifies the cancellation target. ID wins when present;
// otherwise both timestamps must identify an exact slot.
type CancelParams struct {
	ID        *int64 `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ReservationDTO is the full reservation view returned by list operations.
type ReservationDTO struct {
	ID          int64  `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// ConflictDTO summarizes a reservation blocking a requested slot.
type ConflictDTO struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateResultDTO confirms a successful creation.
type CreateResultDTO struct {
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityDTO reports whether a slot is free and what blocks it.
type AvailabilityDTO struct {
	Available bool          `json:"available"`
	Conflicts []ConflictDTO `json:"conflicts"`
}

// ListResultDTO wraps an ordered reservation listing.
type ListResultDTO struct {
	Reservations []ReservationDTO `json:"reservations"`
	Count        int              `json:"count"`
}

// CancelResultDTO confirms a cancellation and echoes the removed slot.
type CancelResultDTO struct {
	Canceled  bool   `json:"canceled"`
	ID        int64  `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
