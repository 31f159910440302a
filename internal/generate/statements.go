package generate

import (
	"fmt"
	"math/rand/v2"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
)

// kindSelfRef is a plan slot for "I am a truth-teller"; it is encoded as a DIRECT claim
const kindSelfRef model.Kind = "SELF_REF"

// Plan lists the statement kinds a mode draws from
type Plan struct {
	Required []model.Kind // advanced kinds every puzzle of the mode shows, in priority order
	Extra    []model.Kind // pool for the remaining advanced slots
	Simple   []model.Kind // pool for every other slot
}

// PlanFor returns the kind plan for a mode and player count
func PlanFor(mode model.Mode, n int) (Plan, error) {
	switch mode {
	case model.ModeBasic:
		return Plan{Simple: []model.Kind{model.KindDirect}}, nil
	case model.ModeIntermediate:
		return Plan{
			Required: []model.Kind{model.KindAnd, model.KindOr},
			Extra:    []model.Kind{model.KindAnd, model.KindOr},
			Simple:   []model.Kind{model.KindDirect},
		}, nil
	case model.ModeAdvanced:
		return Plan{
			Required: []model.Kind{model.KindIf},
			Extra:    []model.Kind{model.KindIf},
			Simple:   []model.Kind{model.KindDirect, model.KindAnd, model.KindOr},
		}, nil
	case model.ModeExpert:
		required := []model.Kind{model.KindXor, model.KindGroup}
		if n >= 5 {
			required = append(required, model.KindIff)
		}
		if n >= 7 {
			required = append(required, model.KindNestedIf)
		}
		return Plan{
			Required: required,
			Extra: []model.Kind{
				model.KindXor, model.KindIff, model.KindGroup,
				model.KindNestedIf, model.KindIf, kindSelfRef,
			},
			Simple: []model.Kind{model.KindDirect, model.KindAnd, model.KindOr, model.KindIf},
		}, nil
	}
	return Plan{}, fmt.Errorf("unknown mode %q", mode)
}

// Slots expands a plan into one kind per speaker, shuffled
func (p Plan) Slots(rng *rand.Rand, n int) []model.Kind {
	advanced := 0
	if len(p.Required) > 0 || len(p.Extra) > 0 {
		advanced = (n + 1) / 2
	}

	slots := make([]model.Kind, 0, n)
	for _, k := range p.Required {
		if len(slots) == advanced {
			break
		}
		slots = append(slots, k)
	}
	for len(slots) < advanced && len(p.Extra) > 0 {
		slots = append(slots, p.Extra[rng.IntN(len(p.Extra))])
	}
	for len(slots) < n {
		slots = append(slots, p.Simple[rng.IntN(len(p.Simple))])
	}
	rng.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })
	return slots
}

// StatementGenerator writes one statement per speaker whose truth value under
// the assigned roles equals the speaker's role
type StatementGenerator struct{}

// NewStatementGenerator creates a new statement generator
func NewStatementGenerator() *StatementGenerator {
	return &StatementGenerator{}
}

// Generate returns statements for every person in people
func (g *StatementGenerator) Generate(rng *rand.Rand, mode model.Mode, people []model.Person, roles model.Assignment) (model.Statements, error) {
	plan, err := PlanFor(mode, len(people))
	if err != nil {
		return nil, err
	}
	slots := plan.Slots(rng, len(people))

	statements := make(model.Statements, len(people))
	for i, speaker := range people {
		others := make([]model.Person, 0, len(people)-1)
		for _, p := range people {
			if p != speaker {
				others = append(others, p)
			}
		}
		statements[speaker] = g.claim(rng, slots[i], speaker, others, roles)
	}

	// every claim must match its speaker's role
	for _, speaker := range people {
		holds, err := logic.Holds(statements[speaker], roles)
		if err != nil {
			return nil, fmt.Errorf("statement of %s: %w", speaker, err)
		}
		if holds != roles[speaker] {
			return nil, fmt.Errorf("statement of %s is inconsistent with role %s", speaker, model.RoleName(roles[speaker]))
		}
	}
	return statements, nil
}

// fallback degrades a kind to one the available operands can support
func fallback(kind model.Kind, others int) model.Kind {
	if others == 0 {
		return kindSelfRef
	}
	if kind == model.KindNestedIf && others < 3 {
		kind = model.KindIf
	}
	if others < 2 {
		switch kind {
		case model.KindAnd, model.KindOr, model.KindXor, model.KindIff, model.KindIf, model.KindGroup:
			kind = model.KindDirect
		}
	}
	return kind
}

func (g *StatementGenerator) claim(rng *rand.Rand, kind model.Kind, speaker model.Person, others []model.Person, roles model.Assignment) model.Claim {
	want := roles[speaker]
	kind = fallback(kind, len(others))

	operands := make([]model.Person, len(others))
	for i, idx := range rng.Perm(len(others)) {
		operands[i] = others[idx]
	}

	// value makes the atom "p is <value>" come out as truth
	value := func(p model.Person, truth bool) bool {
		if truth {
			return roles[p]
		}
		return !roles[p]
	}
	pair := func(a, b bool) model.Pair {
		return model.Pair{
			T1: operands[0], C1: value(operands[0], a),
			T2: operands[1], C2: value(operands[1], b),
		}
	}

	switch kind {
	case kindSelfRef:
		return model.Direct{Target: speaker, Value: true}
	case model.KindAnd:
		if want {
			return model.And{Pair: pair(true, true)}
		}
		a, b := pick(rng, [][2]bool{{false, true}, {true, false}, {false, false}})
		return model.And{Pair: pair(a, b)}
	case model.KindOr:
		if !want {
			return model.Or{Pair: pair(false, false)}
		}
		a, b := pick(rng, [][2]bool{{true, true}, {true, false}, {false, true}})
		return model.Or{Pair: pair(a, b)}
	case model.KindXor:
		if want {
			a, b := pick(rng, [][2]bool{{true, false}, {false, true}})
			return model.Xor{Pair: pair(a, b)}
		}
		a, b := pick(rng, [][2]bool{{true, true}, {false, false}})
		return model.Xor{Pair: pair(a, b)}
	case model.KindIff:
		if want {
			a, b := pick(rng, [][2]bool{{true, true}, {false, false}})
			return model.Iff{Pair: pair(a, b)}
		}
		a, b := pick(rng, [][2]bool{{true, false}, {false, true}})
		return model.Iff{Pair: pair(a, b)}
	case model.KindIf:
		cond, result := true, false
		if want {
			cond, result = pick(rng, [][2]bool{{false, true}, {false, false}, {true, true}})
		}
		p := pair(cond, result)
		return model.If{Cond: p.T1, CondVal: p.C1, Result: p.T2, ResultVal: p.C2}
	case model.KindNestedIf:
		outer, inner, result := true, true, false
		if want {
			// any combination except (T,T,F)
			for bits := 6; bits == 6; {
				bits = rng.IntN(8)
				outer, inner, result = bits&4 != 0, bits&2 != 0, bits&1 != 0
			}
		}
		return model.NestedIf{
			OuterCond: operands[0], OuterVal: value(operands[0], outer),
			InnerCond: operands[1], InnerVal: value(operands[1], inner),
			InnerResult: operands[2], InnerResultVal: value(operands[2], result),
		}
	case model.KindGroup:
		return groupClaim(rng, want, operands, roles)
	}

	target := operands[0]
	return model.Direct{Target: target, Value: value(target, want)}
}

func groupClaim(rng *rand.Rand, want bool, operands []model.Person, roles model.Assignment) model.Group {
	size := 2 + rng.IntN(len(operands)-1)
	members := append([]model.Person(nil), operands[:size]...)
	model.SortPersons(members)

	actual := 0
	for _, p := range members {
		if roles[p] {
			actual++
		}
	}
	if want {
		return model.Group{Members: members, Exactly: actual}
	}

	// prefer a wrong count that is neither 0 nor all
	candidates := make([]int, 0, size)
	for c := 1; c < size; c++ {
		if c != actual {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		for c := 0; c <= size; c++ {
			if c != actual {
				candidates = append(candidates, c)
			}
		}
	}
	return model.Group{Members: members, Exactly: candidates[rng.IntN(len(candidates))]}
}

func pick(rng *rand.Rand, options [][2]bool) (bool, bool) {
	o := options[rng.IntN(len(options))]
	return o[0], o[1]
}
