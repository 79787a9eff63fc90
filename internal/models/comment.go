package models

import (
	"database/sql"
	"time"
)

// Comment represents a reply attached to a post. Comments are removed
// together with their post.
type Comment struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID   sql.NullInt64 `gorm:"index:yatube_comments_post_ix;column:post_id"`
	AuthorID int64         `gorm:"not null;column:author_id"`
	Text     string        `gorm:"type:text;not null;column:text"`
	PubDate  time.Time     `gorm:"not null;column:pub_date"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "yatube_comments"
}
