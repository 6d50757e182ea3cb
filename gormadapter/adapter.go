// Package gormadapter implements accessible's schema reflection against GORM
// model metadata and provides the Scoper that turns a rule list into a scoped
// *gorm.DB query: outer joins for every referenced relation path, one WHERE
// predicate combining all rules, and a DISTINCT instruction on the result.
package gormadapter

import (
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"

	"github.com/jeremyyap/accessible"
)

// parseCache shares parsed model metadata across all Parse calls, matching
// how GORM itself caches schema parsing. Safe for concurrent use.
var parseCache = &sync.Map{}

var namer = schema.NamingStrategy{}

// Parse builds an accessible.Entity from a GORM model struct. Associations
// are resolved lazily, so mutually referential models parse without issue.
// Enumeration attributes are picked up from models implementing
// accessible.EnumMapped.
func Parse(model any) (accessible.Entity, error) {
	s, err := schema.Parse(model, parseCache, namer)
	if err != nil {
		return nil, fmt.Errorf("gormadapter: parsing model %T: %w", model, err)
	}
	return wrap(s), nil
}

func wrap(s *schema.Schema) *entity {
	e := &entity{
		s:         s,
		relations: make(map[string]*schema.Relationship, len(s.Relationships.Relations)),
	}
	for name, rel := range s.Relationships.Relations {
		// Index by both the Go field name and its snake_case form, so rule
		// conditions may use either.
		e.relations[name] = rel
		e.relations[namer.ColumnName("", name)] = rel
	}
	if mapped, ok := reflect.New(s.ModelType).Interface().(accessible.EnumMapped); ok {
		e.enums = mapped.AttributeEnums()
	}
	return e
}

// entity adapts *schema.Schema to accessible.Entity. Read-only after wrap.
type entity struct {
	s         *schema.Schema
	relations map[string]*schema.Relationship
	enums     map[string]accessible.EnumSet
}

func (e *entity) Name() string { return e.s.Name }

func (e *entity) Table() string { return e.s.Table }

func (e *entity) Column(name string) (string, bool) {
	field := e.s.LookUpField(name)
	if field == nil || field.DBName == "" {
		return "", false
	}
	return field.DBName, true
}

func (e *entity) Relation(name string) (*accessible.Relation, bool) {
	rel, ok := e.relations[name]
	if !ok {
		return nil, false
	}
	return &accessible.Relation{
		Name:   name,
		Target: wrap(rel.FieldSchema),
		Steps:  joinSteps(rel),
	}, true
}

func (e *entity) Enum(attribute string) (accessible.EnumSet, bool) {
	set, ok := e.enums[attribute]
	return set, ok
}

// joinSteps translates GORM relationship references into physical join steps.
// Direct associations (belongs-to, has-one, has-many) join in one step;
// many-to-many associations hop through the join table first.
func joinSteps(rel *schema.Relationship) []accessible.JoinStep {
	if rel.JoinTable != nil {
		joinStep := accessible.JoinStep{Table: rel.JoinTable.Table}
		targetStep := accessible.JoinStep{Table: rel.FieldSchema.Table}
		for _, ref := range rel.References {
			if ref.OwnPrimaryKey {
				joinStep.On = append(joinStep.On, refPair(ref))
			} else {
				targetStep.On = append(targetStep.On, refPair(ref))
			}
		}
		return []accessible.JoinStep{joinStep, targetStep}
	}

	step := accessible.JoinStep{Table: rel.FieldSchema.Table}
	for _, ref := range rel.References {
		step.On = append(step.On, refPair(ref))
	}
	return []accessible.JoinStep{step}
}

// refPair maps one GORM reference to an ON condition. The Right column is
// always on the newly joined side: the foreign key for has-style references
// (OwnPrimaryKey), the primary key for belongs-to-style ones. References with
// a PrimaryValue pin a polymorphic type column to a constant.
func refPair(ref *schema.Reference) accessible.ColumnPair {
	if ref.PrimaryValue != "" {
		return accessible.ColumnPair{Right: ref.ForeignKey.DBName, Value: ref.PrimaryValue}
	}
	if ref.OwnPrimaryKey {
		return accessible.ColumnPair{Left: ref.PrimaryKey.DBName, Right: ref.ForeignKey.DBName}
	}
	return accessible.ColumnPair{Left: ref.ForeignKey.DBName, Right: ref.PrimaryKey.DBName}
}
