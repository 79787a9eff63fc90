package models

import (
	"time"
)

// Follow represents a directed "user follows author" edge. The unique
// index makes duplicate inserts a no-op at the storage level, so
// concurrent follow requests for the same pair cannot produce two edges.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:yatube_follows_ux1;index:yatube_follows_user_ix;column:user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:yatube_follows_ux1;column:author_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User   *User `gorm:"foreignKey:UserID;references:ID"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "yatube_follows"
}
