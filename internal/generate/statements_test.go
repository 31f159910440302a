package generate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
)

func TestAssignRoles(t *testing.T) {
	rng := seeded(8)
	for n := 2; n <= 12; n++ {
		roles, k, err := AssignRoles(rng, model.Labels(n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if k != model.RequiredTruthTellers(n) {
			t.Errorf("n=%d: expected k=%d, got %d", n, model.RequiredTruthTellers(n), k)
		}
		if roles.TruthTellers() != k || len(roles) != n {
			t.Errorf("n=%d: expected %d of %d truth-tellers, got %d of %d", n, k, n, roles.TruthTellers(), len(roles))
		}
	}

	if _, _, err := AssignRoles(rng, model.Labels(1)); err == nil {
		t.Error("expected error for a single person")
	}
}

func TestPlan_Slots(t *testing.T) {
	rng := seeded(2)

	tests := []struct {
		mode     model.Mode
		n        int
		required []model.Kind
	}{
		{model.ModeBasic, 6, nil},
		{model.ModeIntermediate, 4, []model.Kind{model.KindAnd, model.KindOr}},
		{model.ModeAdvanced, 5, []model.Kind{model.KindIf}},
		{model.ModeExpert, 3, []model.Kind{model.KindXor, model.KindGroup}},
	}

	for _, tt := range tests {
		plan, err := PlanFor(tt.mode, tt.n)
		if err != nil {
			t.Fatalf("%s: %v", tt.mode, err)
		}
		slots := plan.Slots(rng, tt.n)
		if len(slots) != tt.n {
			t.Fatalf("%s: expected %d slots, got %d", tt.mode, tt.n, len(slots))
		}

		counts := make(map[model.Kind]int)
		for _, k := range slots {
			counts[k]++
		}
		for _, k := range tt.required {
			if counts[k] == 0 {
				t.Errorf("%s: required kind %s missing from %v", tt.mode, k, slots)
			}
		}
	}

	if _, err := PlanFor("nightmare", 4); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPlan_Slots_TruncatesRequired(t *testing.T) {
	plan, err := PlanFor(model.ModeExpert, 7)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Kind{model.KindXor, model.KindGroup, model.KindIff, model.KindNestedIf}
	if diff := cmp.Diff(want, plan.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}

	plan, _ = PlanFor(model.ModeExpert, 3)
	slots := plan.Slots(seeded(1), 3)
	advanced := 0
	for _, k := range slots {
		if k == model.KindXor || k == model.KindGroup {
			advanced++
		}
	}
	if advanced != 2 {
		t.Errorf("expected 2 advanced slots for 3 players, got %v", slots)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		kind   model.Kind
		others int
		want   model.Kind
	}{
		{model.KindNestedIf, 3, model.KindNestedIf},
		{model.KindNestedIf, 2, model.KindIf},
		{model.KindNestedIf, 1, model.KindDirect},
		{model.KindXor, 1, model.KindDirect},
		{model.KindGroup, 1, model.KindDirect},
		{model.KindGroup, 2, model.KindGroup},
		{model.KindAnd, 0, kindSelfRef},
		{kindSelfRef, 1, kindSelfRef},
	}
	for _, tt := range tests {
		if got := fallback(tt.kind, tt.others); got != tt.want {
			t.Errorf("fallback(%s, %d): expected %s, got %s", tt.kind, tt.others, tt.want, got)
		}
	}
}

func TestStatementGenerator_EveryKindBothRoles(t *testing.T) {
	g := NewStatementGenerator()
	people := model.Labels(5)
	roles := model.Assignment{"A": true, "B": false, "C": true, "D": false, "E": true}
	kinds := []model.Kind{
		model.KindDirect, model.KindAnd, model.KindOr, model.KindXor, model.KindIff,
		model.KindIf, model.KindNestedIf, model.KindGroup, kindSelfRef,
	}

	rng := seeded(4)
	for _, kind := range kinds {
		for _, speaker := range people {
			var others []model.Person
			for _, p := range people {
				if p != speaker {
					others = append(others, p)
				}
			}
			for i := 0; i < 20; i++ {
				c := g.claim(rng, kind, speaker, others, roles)
				holds, err := logic.Holds(c, roles)
				if err != nil {
					t.Fatalf("%s: %v", kind, err)
				}
				if holds != roles[speaker] {
					t.Fatalf("%s by %s (%s): %q evaluates to %v", kind, speaker, model.RoleName(roles[speaker]), Text(c), holds)
				}
				if kind != kindSelfRef {
					for _, ref := range c.Refs() {
						if ref == speaker {
							t.Fatalf("%s by %s references the speaker", kind, speaker)
						}
					}
				}
			}
		}
	}
}

func TestGroupClaim_LiarCount(t *testing.T) {
	roles := model.Assignment{"B": true, "C": false, "D": true}
	rng := seeded(6)
	for i := 0; i < 50; i++ {
		g := groupClaim(rng, false, []model.Person{"B", "C", "D"}, roles)
		actual := 0
		for _, p := range g.Members {
			if roles[p] {
				actual++
			}
		}
		if g.Exactly == actual {
			t.Fatalf("liar group claim states the true count %d", actual)
		}
		if g.Exactly < 0 || g.Exactly > len(g.Members) {
			t.Fatalf("count %d out of range for %d members", g.Exactly, len(g.Members))
		}
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		claim model.Claim
		want  string
	}{
		{model.Direct{Target: "B", Value: true}, "B is a Truth-Teller."},
		{model.And{Pair: model.Pair{T1: "A", C1: true, T2: "C", C2: false}}, "A is a Truth-Teller AND C is a Liar."},
		{model.Or{Pair: model.Pair{T1: "A", C1: false, T2: "C", C2: false}}, "A is a Liar OR C is a Liar."},
		{model.Xor{Pair: model.Pair{T1: "A", C1: true, T2: "B", C2: true}}, "Either A is a Truth-Teller OR B is a Truth-Teller, but not both."},
		{model.Iff{Pair: model.Pair{T1: "A", C1: true, T2: "B", C2: false}}, "A is a Truth-Teller if and only if B is a Liar."},
		{model.If{Cond: "A", CondVal: false, Result: "C", ResultVal: true}, "If A is a Liar, then C is a Truth-Teller."},
		{model.NestedIf{OuterCond: "A", OuterVal: true, InnerCond: "B", InnerVal: false, InnerResult: "C", InnerResultVal: true},
			"If A is a Truth-Teller, then if B is a Liar, then C is a Truth-Teller."},
		{model.Group{Members: []model.Person{"A", "B"}, Exactly: 1}, "Exactly 1 of A and B are Truth-Tellers."},
		{model.Group{Members: []model.Person{"A", "B", "D"}, Exactly: 2}, "Exactly 2 of A, B, and D are Truth-Tellers."},
	}
	for _, tt := range tests {
		if got := Text(tt.claim); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestSpeakerText(t *testing.T) {
	self := model.Direct{Target: "C", Value: true}
	if got := SpeakerText("C", self); got != "I am a Truth-Teller." {
		t.Errorf("expected first person for a self claim, got %q", got)
	}
	if got := SpeakerText("A", self); got != "C is a Truth-Teller." {
		t.Errorf("expected third person for another speaker, got %q", got)
	}
	and := model.And{Pair: model.Pair{T1: "A", C1: true, T2: "C", C2: false}}
	if got := SpeakerText("A", and); got != Text(and) {
		t.Errorf("expected compound claims unchanged, got %q", got)
	}
}
