package models

// Group represents a community that posts can be published into.
// Groups are created administratively and addressed by slug.
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Title       string `gorm:"type:varchar(200);not null;column:title"`
	Slug        string `gorm:"type:varchar(200);not null;uniqueIndex:yatube_groups_ux1;column:slug"`
	Description string `gorm:"type:text;not null;default:'';column:description"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "yatube_groups"
}

func (g *Group) String() string {
	return g.Title
}
