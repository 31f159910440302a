package logic

import (
	"testing"

	"github.com/ppiankov/veritas/internal/model"
)

func TestFormula_Eval(t *testing.T) {
	a := model.Assignment{"A": true, "B": false, "C": true}

	tests := []struct {
		name string
		f    Formula
		want bool
	}{
		{"var true", Var("A"), true},
		{"var false", Var("B"), false},
		{"not", Not{Var("B")}, true},
		{"const", Const(false), false},
		{"and", And{Var("A"), Var("C")}, true},
		{"and with liar", And{Var("A"), Var("B")}, false},
		{"empty and", And{}, true},
		{"or", Or{Var("B"), Var("C")}, true},
		{"empty or", Or{}, false},
		{"implies vacuous", Implies{If: Var("B"), Then: Const(false)}, true},
		{"implies broken", Implies{If: Var("A"), Then: Var("B")}, false},
		{"xor", Xor{A: Var("A"), B: Var("B")}, true},
		{"xor both", Xor{A: Var("A"), B: Var("C")}, false},
		{"iff", Iff{A: Var("A"), B: Var("C")}, true},
		{"iff mismatch", Iff{A: Var("A"), B: Var("B")}, false},
		{"exactly 2", Exactly{Vars: []model.Person{"A", "B", "C"}, K: 2}, true},
		{"exactly 1", Exactly{Vars: []model.Person{"A", "B", "C"}, K: 1}, false},
		{"is liar", Is("B", false), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Eval(a); got != tt.want {
				t.Errorf("expected %v for %s, got %v", tt.want, tt.f, got)
			}
		})
	}
}

func TestFormula_String(t *testing.T) {
	f := Implies{If: Var("A"), Then: And{Var("B"), Not{Var("C")}}}
	want := "(A ⇒ (B ∧ ¬C))"
	if got := f.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	e := Exactly{Vars: []model.Person{"A", "B"}, K: 1}
	if got := e.String(); got != "#{A,B} = 1" {
		t.Errorf("unexpected exactly rendering %q", got)
	}
}
