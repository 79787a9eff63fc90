package models

import (
	"database/sql"
	"time"
)

// User represents an author identity. Accounts are created and
// authenticated by an external collaborator; this service only
// references them.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex:yatube_users_ux1;column:username"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Profile fields
	DisplayName sql.NullString `gorm:"type:varchar(150);column:display_name"`
	About       sql.NullString `gorm:"type:varchar(500);column:about"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "yatube_users"
}
