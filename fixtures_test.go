package accessible_test

import (
	"github.com/jeremyyap/accessible"
)

// fakeEntity is a hand-rolled schema-reflection fixture. The graph mirrors a
// small publishing domain: articles with an author (belongs-to), comments
// (has-many), and tags (many-to-many), authors grouped into teams.
type fakeEntity struct {
	name      string
	table     string
	columns   map[string]string
	enums     map[string]accessible.EnumSet
	relations map[string]*accessible.Relation
}

func (e *fakeEntity) Name() string { return e.name }

func (e *fakeEntity) Table() string { return e.table }

func (e *fakeEntity) Column(name string) (string, bool) {
	column, ok := e.columns[name]
	return column, ok
}

func (e *fakeEntity) Relation(name string) (*accessible.Relation, bool) {
	rel, ok := e.relations[name]
	return rel, ok
}

func (e *fakeEntity) Enum(attribute string) (accessible.EnumSet, bool) {
	set, ok := e.enums[attribute]
	return set, ok
}

// articleEntity builds the fixture graph rooted at Article.
func articleEntity() *fakeEntity {
	team := &fakeEntity{
		name:    "Team",
		table:   "teams",
		columns: map[string]string{"id": "id", "name": "name"},
	}

	user := &fakeEntity{
		name:    "User",
		table:   "users",
		columns: map[string]string{"id": "id", "name": "name", "team_id": "team_id"},
		relations: map[string]*accessible.Relation{
			"team": {
				Name:   "team",
				Target: team,
				Steps: []accessible.JoinStep{{
					Table: "teams",
					On:    []accessible.ColumnPair{{Left: "team_id", Right: "id"}},
				}},
			},
		},
	}

	comment := &fakeEntity{
		name:    "Comment",
		table:   "comments",
		columns: map[string]string{"id": "id", "article_id": "article_id", "approved": "approved"},
		relations: map[string]*accessible.Relation{
			"author": {
				Name:   "author",
				Target: user,
				Steps: []accessible.JoinStep{{
					Table: "users",
					On:    []accessible.ColumnPair{{Left: "author_id", Right: "id"}},
				}},
			},
		},
	}

	tag := &fakeEntity{
		name:    "Tag",
		table:   "tags",
		columns: map[string]string{"id": "id", "name": "name"},
	}

	return &fakeEntity{
		name:  "Article",
		table: "articles",
		columns: map[string]string{
			"id":       "id",
			"owner_id": "owner_id",
			"locked":   "locked",
			"status":   "status",
		},
		enums: map[string]accessible.EnumSet{
			"status": {"draft": 0, "published": 1, "archived": 2},
		},
		relations: map[string]*accessible.Relation{
			"author": {
				Name:   "author",
				Target: user,
				Steps: []accessible.JoinStep{{
					Table: "users",
					On:    []accessible.ColumnPair{{Left: "author_id", Right: "id"}},
				}},
			},
			"comments": {
				Name:   "comments",
				Target: comment,
				Steps: []accessible.JoinStep{{
					Table: "comments",
					On:    []accessible.ColumnPair{{Left: "id", Right: "article_id"}},
				}},
			},
			"tags": {
				Name:   "tags",
				Target: tag,
				Steps: []accessible.JoinStep{
					{
						Table: "article_tags",
						On:    []accessible.ColumnPair{{Left: "id", Right: "article_id"}},
					},
					{
						Table: "tags",
						On:    []accessible.ColumnPair{{Left: "tag_id", Right: "id"}},
					},
				},
			},
		},
	}
}
