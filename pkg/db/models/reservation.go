package models

// Reservation is the persisted record for one booked slot. Timestamps are
// stored as UTC RFC3339 text so lexicographic comparison in SQL matches
// chronological order.
type Reservation struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	StartTime   string `gorm:"type:text;not null;index;uniqueIndex:idx_reservations_slot"`
	EndTime     string `gorm:"type:text;not null;uniqueIndex:idx_reservations_slot"`
	Description string `gorm:"type:text"`
	CreatedAt   string `gorm:"type:text;not null"`
}

func (Reservation) TableName() string {
	return "reservations"
}
