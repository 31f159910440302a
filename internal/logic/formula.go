// Package logic turns truth-teller/liar statements into backend-neutral
// boolean constraints and evaluates them against role assignments.
package logic

import (
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Formula is a boolean formula over "person is a truth-teller" variables
type Formula interface {
	Eval(a model.Assignment) bool
	String() string
}

// Var is true when the person is a truth-teller
type Var model.Person

// Const is a literal truth value
type Const bool

// Not negates F
type Not struct{ F Formula }

// And is true when every operand is true (empty And is true)
type And []Formula

// Or is true when some operand is true (empty Or is false)
type Or []Formula

// Implies is ¬If ∨ Then
type Implies struct{ If, Then Formula }

// Xor is true when exactly one side is true
type Xor struct{ A, B Formula }

// Iff is true when both sides agree
type Iff struct{ A, B Formula }

// Exactly is true when exactly K of Vars are truth-tellers
type Exactly struct {
	Vars []model.Person
	K    int
}

// Is builds the atom "p is a <role>"
func Is(p model.Person, truthTeller bool) Formula {
	if truthTeller {
		return Var(p)
	}
	return Not{Var(p)}
}

func (v Var) Eval(a model.Assignment) bool { return a[model.Person(v)] }
func (c Const) Eval(model.Assignment) bool { return bool(c) }
func (n Not) Eval(a model.Assignment) bool { return !n.F.Eval(a) }

func (f And) Eval(a model.Assignment) bool {
	for _, op := range f {
		if !op.Eval(a) {
			return false
		}
	}
	return true
}

func (f Or) Eval(a model.Assignment) bool {
	for _, op := range f {
		if op.Eval(a) {
			return true
		}
	}
	return false
}

func (f Implies) Eval(a model.Assignment) bool { return !f.If.Eval(a) || f.Then.Eval(a) }
func (f Xor) Eval(a model.Assignment) bool     { return f.A.Eval(a) != f.B.Eval(a) }
func (f Iff) Eval(a model.Assignment) bool     { return f.A.Eval(a) == f.B.Eval(a) }

func (f Exactly) Eval(a model.Assignment) bool {
	count := 0
	for _, p := range f.Vars {
		if a[p] {
			count++
		}
	}
	return count == f.K
}

func (v Var) String() string   { return string(v) }
func (c Const) String() string { return fmt.Sprintf("%t", bool(c)) }
func (n Not) String() string   { return "¬" + n.F.String() }

func (f And) String() string     { return join(" ∧ ", f) }
func (f Or) String() string      { return join(" ∨ ", f) }
func (f Implies) String() string { return "(" + f.If.String() + " ⇒ " + f.Then.String() + ")" }
func (f Xor) String() string     { return "(" + f.A.String() + " ⊕ " + f.B.String() + ")" }
func (f Iff) String() string     { return "(" + f.A.String() + " ⇔ " + f.B.String() + ")" }

func (f Exactly) String() string {
	names := make([]string, len(f.Vars))
	for i, p := range f.Vars {
		names[i] = string(p)
	}
	return fmt.Sprintf("#{%s} = %d", strings.Join(names, ","), f.K)
}

func join(sep string, ops []Formula) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
