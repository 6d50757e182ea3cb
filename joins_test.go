package accessible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyyap/accessible"
)

func TestPlanJoins(t *testing.T) {
	tests := []struct {
		name       string
		conditions accessible.Conditions
		want       []accessible.JoinPath
	}{
		{
			name:       "nil tree",
			conditions: nil,
			want:       nil,
		},
		{
			name:       "scalars only",
			conditions: accessible.Conditions{"owner_id": 5, "locked": false},
			want:       nil,
		},
		{
			name:       "single relation",
			conditions: accessible.Conditions{"author": accessible.Conditions{"name": "alice"}},
			want:       []accessible.JoinPath{{"author"}},
		},
		{
			name:       "nested relations emit every prefix",
			conditions: accessible.Conditions{"a": accessible.Conditions{"b": accessible.Conditions{"c": 3}}},
			want:       []accessible.JoinPath{{"a"}, {"a", "b"}},
		},
		{
			name: "siblings in sorted key order",
			conditions: accessible.Conditions{
				"comments": accessible.Conditions{"approved": true},
				"author":   accessible.Conditions{"team": accessible.Conditions{"name": "core"}},
			},
			want: []accessible.JoinPath{{"author"}, {"author", "team"}, {"comments"}},
		},
		{
			name: "plain map values count as nested trees",
			conditions: accessible.Conditions{
				"author": map[string]any{"name": "alice"},
			},
			want: []accessible.JoinPath{{"author"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accessible.PlanJoins(tt.conditions))
		})
	}
}

func TestPlanJoins_Idempotent(t *testing.T) {
	conditions := accessible.Conditions{"author": accessible.Conditions{"team": accessible.Conditions{"name": "core"}}}

	first := accessible.PlanJoins(conditions)
	second := accessible.PlanJoins(conditions)
	assert.Equal(t, first, second)
}

func TestJoinClauses_BelongsTo(t *testing.T) {
	clauses, err := accessible.JoinClauses(articleEntity(), accessible.JoinPath{"author"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LEFT JOIN users AS author ON author.id = articles.author_id",
	}, clauses)
}

func TestJoinClauses_HasMany(t *testing.T) {
	clauses, err := accessible.JoinClauses(articleEntity(), accessible.JoinPath{"comments"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LEFT JOIN comments AS comments ON comments.article_id = articles.id",
	}, clauses)
}

func TestJoinClauses_NestedPath(t *testing.T) {
	clauses, err := accessible.JoinClauses(articleEntity(), accessible.JoinPath{"author", "team"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LEFT JOIN users AS author ON author.id = articles.author_id",
		"LEFT JOIN teams AS author__team ON author__team.id = author.team_id",
	}, clauses)
}

func TestJoinClauses_ManyToMany(t *testing.T) {
	clauses, err := accessible.JoinClauses(articleEntity(), accessible.JoinPath{"tags"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LEFT JOIN article_tags AS tags__join ON tags__join.article_id = articles.id",
		"LEFT JOIN tags AS tags ON tags.id = tags__join.tag_id",
	}, clauses)
}

func TestJoinClauses_LiteralConstraint(t *testing.T) {
	root := &fakeEntity{
		name:    "Note",
		table:   "notes",
		columns: map[string]string{"id": "id"},
		relations: map[string]*accessible.Relation{
			"attachments": {
				Name: "attachments",
				Target: &fakeEntity{
					name:    "Attachment",
					table:   "attachments",
					columns: map[string]string{"id": "id"},
				},
				Steps: []accessible.JoinStep{{
					Table: "attachments",
					On: []accessible.ColumnPair{
						{Left: "id", Right: "owner_id"},
						{Right: "owner_type", Value: "notes"},
					},
				}},
			},
		},
	}

	clauses, err := accessible.JoinClauses(root, accessible.JoinPath{"attachments"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LEFT JOIN attachments AS attachments ON attachments.owner_id = notes.id AND attachments.owner_type = 'notes'",
	}, clauses)
}

func TestJoinClauses_UnknownRelation(t *testing.T) {
	_, err := accessible.JoinClauses(articleEntity(), accessible.JoinPath{"reviewers"})
	require.Error(t, err)
	assert.True(t, accessible.IsSchemaMismatchErr(err))
}

func TestJoinPath_Alias(t *testing.T) {
	assert.Equal(t, "author", accessible.JoinPath{"author"}.Alias())
	assert.Equal(t, "author__team", accessible.JoinPath{"author", "team"}.Alias())
}
