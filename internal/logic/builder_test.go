package logic

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/veritas/internal/model"
)

func TestClaimFormula_Semantics(t *testing.T) {
	// A, B truth-tellers; C liar
	a := model.Assignment{"A": true, "B": true, "C": false}

	tests := []struct {
		name  string
		claim model.Claim
		want  bool
	}{
		{"direct", model.Direct{Target: "C", Value: false}, true},
		{"direct wrong", model.Direct{Target: "C", Value: true}, false},
		{"and", model.And{Pair: model.Pair{T1: "A", C1: true, T2: "C", C2: false}}, true},
		{"and wrong", model.And{Pair: model.Pair{T1: "A", C1: true, T2: "C", C2: true}}, false},
		{"or", model.Or{Pair: model.Pair{T1: "A", C1: false, T2: "C", C2: false}}, true},
		{"or wrong", model.Or{Pair: model.Pair{T1: "A", C1: false, T2: "B", C2: false}}, false},
		{"xor", model.Xor{Pair: model.Pair{T1: "A", C1: true, T2: "B", C2: false}}, true},
		{"xor wrong", model.Xor{Pair: model.Pair{T1: "A", C1: true, T2: "B", C2: true}}, false},
		{"iff", model.Iff{Pair: model.Pair{T1: "A", C1: true, T2: "C", C2: false}}, true},
		{"iff wrong", model.Iff{Pair: model.Pair{T1: "A", C1: true, T2: "C", C2: true}}, false},
		{"if", model.If{Cond: "A", CondVal: true, Result: "B", ResultVal: true}, true},
		{"if vacuous", model.If{Cond: "C", CondVal: true, Result: "B", ResultVal: false}, true},
		{"if broken", model.If{Cond: "A", CondVal: true, Result: "C", ResultVal: true}, false},
		{"nested if broken", model.NestedIf{
			OuterCond: "A", OuterVal: true,
			InnerCond: "B", InnerVal: true,
			InnerResult: "C", InnerResultVal: true,
		}, false},
		{"nested if", model.NestedIf{
			OuterCond: "A", OuterVal: true,
			InnerCond: "C", InnerVal: true,
			InnerResult: "B", InnerResultVal: false,
		}, true},
		{"group", model.Group{Members: []model.Person{"A", "B", "C"}, Exactly: 2}, true},
		{"group wrong", model.Group{Members: []model.Person{"A", "C"}, Exactly: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Holds(tt.claim, a)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClaimFormula_Nil(t *testing.T) {
	if _, err := ClaimFormula(nil); err == nil {
		t.Error("expected error for nil claim")
	}
}

func TestBuilder_Build(t *testing.T) {
	persons := model.Labels(3)
	statements := model.Statements{
		"A": model.Direct{Target: "B", Value: true},
		"B": model.Direct{Target: "C", Value: false},
		"C": model.Direct{Target: "A", Value: false},
	}

	cs, err := NewBuilder().Build(persons, statements, 2)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(cs.Constraints) != 7 {
		t.Fatalf("expected 7 constraints (2 per speaker + cardinality), got %d", len(cs.Constraints))
	}

	var origins []Origin
	for _, c := range cs.Constraints {
		origins = append(origins, c.Origin)
	}
	want := []Origin{
		OriginStatement, OriginStatement,
		OriginStatement, OriginStatement,
		OriginStatement, OriginStatement,
		OriginCardinality,
	}
	if diff := cmp.Diff(want, origins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}

	if !cs.Satisfied(model.Assignment{"A": true, "B": true, "C": false}) {
		t.Error("expected A,B truth-tellers and C liar to satisfy the set")
	}
	if cs.Satisfied(model.Assignment{"A": true, "B": false, "C": true}) {
		t.Error("expected A,C truth-tellers to violate A's statement")
	}
}

func TestBuilder_Build_UnknownReference(t *testing.T) {
	persons := model.Labels(2)
	statements := model.Statements{
		"A": model.Direct{Target: "Z", Value: true},
	}
	if _, err := NewBuilder().Build(persons, statements, 2); err == nil {
		t.Error("expected error for unknown reference")
	}

	statements = model.Statements{
		"Q": model.Direct{Target: "A", Value: true},
	}
	if _, err := NewBuilder().Build(persons, statements, 2); err == nil {
		t.Error("expected error for unknown speaker")
	}
}

func TestConstraintSet_WithPins(t *testing.T) {
	persons := model.Labels(3)
	cs, err := NewBuilder().Build(persons, model.Statements{}, 2)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	pinned := cs.WithPins(map[model.Person]bool{"C": false, "A": true})
	if len(cs.Constraints) != 1 {
		t.Errorf("original set modified: %d constraints", len(cs.Constraints))
	}
	if len(pinned.Constraints) != 3 {
		t.Fatalf("expected 3 constraints, got %d", len(pinned.Constraints))
	}

	got := []model.Person{pinned.Constraints[1].Person, pinned.Constraints[2].Person}
	if diff := cmp.Diff([]model.Person{"A", "C"}, got); diff != "" {
		t.Errorf("pins not in label order (-want +got):\n%s", diff)
	}
	if pinned.Satisfied(model.Assignment{"A": false, "B": true, "C": true}) {
		t.Error("expected pin on A to reject A as liar")
	}
}
