package gormadapter_test

import (
	"github.com/jeremyyap/accessible"
)

// Test domain: articles with an author (belongs-to), comments (has-many),
// and tags (many-to-many), authors grouped into teams.

type Team struct {
	ID   uint
	Name string
}

type User struct {
	ID     uint
	Name   string
	TeamID *uint
	Team   *Team
}

type Comment struct {
	ID        uint
	ArticleID uint
	Approved  bool
}

type Tag struct {
	ID   uint
	Name string
}

type Article struct {
	ID       uint
	OwnerID  uint
	Locked   bool
	Status   int
	AuthorID *uint
	Author   *User
	Comments []Comment
	Tags     []Tag `gorm:"many2many:article_tags"`
}

// AttributeEnums declares status as enumeration-valued: rules condition on
// symbols, the column stores integers.
func (Article) AttributeEnums() map[string]accessible.EnumSet {
	return map[string]accessible.EnumSet{
		"status": {"draft": 0, "published": 1, "archived": 2},
	}
}

const (
	statusDraft = iota
	statusPublished
	statusArchived
)
