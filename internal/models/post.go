package models

import (
	"database/sql"
	"time"
)

// DefaultTitle is used when a post is created without a title.
const DefaultTitle = "Untitled post"

// PreviewLen is the number of runes of post text shown in short listings.
const PreviewLen = 15

// Post represents a published entry. PubDate is set once at creation and
// never updated afterwards; it is the basis for feed ordering.
type Post struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	Title    string        `gorm:"type:varchar(200);not null;column:title"`
	Text     string        `gorm:"type:text;not null;column:text"`
	AuthorID int64         `gorm:"not null;index:yatube_posts_author_ix;column:author_id"`
	GroupID  sql.NullInt64 `gorm:"index:yatube_posts_group_ix;column:group_id"`
	Image    string        `gorm:"type:varchar(1024);not null;default:'';column:image"`
	PubDate  time.Time     `gorm:"not null;index:yatube_posts_pub_date_ix;column:pub_date"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID;references:ID"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "yatube_posts"
}

// String returns the leading runes of the post text, used as the short
// representation in listings and logs.
func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > PreviewLen {
		runes = runes[:PreviewLen]
	}
	return string(runes)
}
