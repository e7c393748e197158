package entity

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// IsActive reports whether an appointment in this status occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

type Appointment struct {
	Seq           int64   `gorm:"primaryKey;autoIncrement"` // insertion order
	ID            string  `gorm:"uniqueIndex;not null"`
	Time          string  `gorm:"index;not null"`
	RequesterID   *string `gorm:"index"` // nil only for legacy seed data
	RequesterName string  `gorm:"not null"`
	Status        Status  `gorm:"not null"`
	CreatedAt     int64   `gorm:"not null"`
}

// OwnedBy reports whether userID is the appointment's requester.
func (a *Appointment) OwnedBy(userID string) bool {
	return a.RequesterID != nil && *a.RequesterID == userID
}
