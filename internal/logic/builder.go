package logic

import (
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
)

// Origin records why a constraint exists
type Origin int

const (
	OriginStatement   Origin = iota // speaker role ⇒ claim polarity
	OriginCardinality               // global truth-teller count
	OriginPin                       // guessed role
)

func (o Origin) String() string {
	switch o {
	case OriginStatement:
		return "statement"
	case OriginCardinality:
		return "cardinality"
	case OriginPin:
		return "pin"
	default:
		return "unknown"
	}
}

// Constraint is one formula that must hold
type Constraint struct {
	Origin  Origin
	Person  model.Person // speaker for statements, pinned person for pins
	Formula Formula
}

// ConstraintSet is a complete, solver-independent constraint problem
type ConstraintSet struct {
	Persons      []model.Person
	TruthTellers int
	Constraints  []Constraint
}

// Satisfied reports whether the assignment meets every constraint
func (cs *ConstraintSet) Satisfied(a model.Assignment) bool {
	for _, c := range cs.Constraints {
		if !c.Formula.Eval(a) {
			return false
		}
	}
	return true
}

// WithPins returns a copy of the set with one unit constraint per guessed person
func (cs *ConstraintSet) WithPins(pins map[model.Person]bool) *ConstraintSet {
	out := &ConstraintSet{
		Persons:      cs.Persons,
		TruthTellers: cs.TruthTellers,
		Constraints:  make([]Constraint, len(cs.Constraints), len(cs.Constraints)+len(pins)),
	}
	copy(out.Constraints, cs.Constraints)
	for _, p := range model.SortedPersons(pins) {
		out.Constraints = append(out.Constraints, Constraint{
			Origin:  OriginPin,
			Person:  p,
			Formula: Is(p, pins[p]),
		})
	}
	return out
}

// Builder translates statements into constraints
type Builder struct{}

// NewBuilder creates a new constraint builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build emits, for every statement, speaker ⇒ F and ¬speaker ⇒ ¬F, then the
// global "exactly truthTellers of persons" constraint
func (b *Builder) Build(persons []model.Person, statements model.Statements, truthTellers int) (*ConstraintSet, error) {
	known := make(map[model.Person]bool, len(persons))
	for _, p := range persons {
		known[p] = true
	}

	cs := &ConstraintSet{
		Persons:      persons,
		TruthTellers: truthTellers,
		Constraints:  make([]Constraint, 0, 2*len(statements)+1),
	}

	for _, speaker := range statements.Speakers() {
		if !known[speaker] {
			return nil, fmt.Errorf("speaker %s is not in the puzzle", speaker)
		}
		claim := statements[speaker]
		for _, ref := range claim.Refs() {
			if !known[ref] {
				return nil, fmt.Errorf("statement of %s references unknown person %s", speaker, ref)
			}
		}

		f, err := ClaimFormula(claim)
		if err != nil {
			return nil, fmt.Errorf("statement of %s: %w", speaker, err)
		}
		cs.Constraints = append(cs.Constraints,
			Constraint{Origin: OriginStatement, Person: speaker, Formula: Implies{If: Var(speaker), Then: f}},
			Constraint{Origin: OriginStatement, Person: speaker, Formula: Implies{If: Not{Var(speaker)}, Then: Not{f}}},
		)
	}

	cs.Constraints = append(cs.Constraints, Constraint{
		Origin:  OriginCardinality,
		Formula: Exactly{Vars: persons, K: truthTellers},
	})
	return cs, nil
}

// ClaimFormula encodes a claim's operator semantics over role variables
func ClaimFormula(c model.Claim) (Formula, error) {
	switch v := c.(type) {
	case model.Direct:
		return Is(v.Target, v.Value), nil
	case model.And:
		return And{Is(v.T1, v.C1), Is(v.T2, v.C2)}, nil
	case model.Or:
		return Or{Is(v.T1, v.C1), Is(v.T2, v.C2)}, nil
	case model.Xor:
		return Xor{A: Is(v.T1, v.C1), B: Is(v.T2, v.C2)}, nil
	case model.Iff:
		return Iff{A: Is(v.T1, v.C1), B: Is(v.T2, v.C2)}, nil
	case model.If:
		return Implies{If: Is(v.Cond, v.CondVal), Then: Is(v.Result, v.ResultVal)}, nil
	case model.NestedIf:
		return Implies{
			If: Is(v.OuterCond, v.OuterVal),
			Then: Implies{
				If:   Is(v.InnerCond, v.InnerVal),
				Then: Is(v.InnerResult, v.InnerResultVal),
			},
		}, nil
	case model.Group:
		return Exactly{Vars: v.Members, K: v.Exactly}, nil
	case nil:
		return nil, fmt.Errorf("nil claim")
	}
	return nil, fmt.Errorf("unsupported claim type %T", c)
}

// Holds evaluates a claim against an assignment
func Holds(c model.Claim, a model.Assignment) (bool, error) {
	f, err := ClaimFormula(c)
	if err != nil {
		return false, err
	}
	return f.Eval(a), nil
}
