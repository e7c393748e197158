package entity

type Role string

const (
	RoleRequester Role = "requester"
	RoleProvider  Role = "provider"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null"`
}
