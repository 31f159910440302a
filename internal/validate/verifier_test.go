package validate

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ppiankov/veritas/internal/generate"
	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/solver"
)

// chainStatements has the single solution A,B,C truth-tellers and D,E liars
func chainStatements() model.Statements {
	return model.Statements{
		"A": model.Direct{Target: "B", Value: true},
		"B": model.Direct{Target: "C", Value: true},
		"C": model.Direct{Target: "D", Value: false},
		"D": model.Direct{Target: "E", Value: true},
		"E": model.Direct{Target: "A", Value: false},
	}
}

func TestVerifier_Verify_Solution(t *testing.T) {
	v := NewVerifier(solver.NewGini(), 2)
	res, err := v.Verify(context.Background(), Submission{
		Statements:   chainStatements(),
		TruthTellers: 3,
		Guess:        model.Guess{"A": true, "B": true, "C": true, "D": false, "E": false},
	})
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.True(t, res.Complete)
}

func TestVerifier_Verify_Flips(t *testing.T) {
	v := NewVerifier(solver.NewGini(), 2)
	solution := model.Guess{"A": true, "B": true, "C": true, "D": false, "E": false}

	for p := range solution {
		flipped := model.Guess{}
		for q, r := range solution {
			flipped[q] = r
		}
		flipped[p] = !flipped[p]

		res, err := v.Verify(context.Background(), Submission{
			Statements: chainStatements(), TruthTellers: 3, Guess: flipped,
		})
		require.NoError(t, err)
		if res.Valid {
			t.Errorf("expected full guess with %s flipped to be invalid", p)
		}

		res, err = v.Verify(context.Background(), Submission{
			Statements: chainStatements(), TruthTellers: 3, Guess: model.Guess{p: !solution[p]},
		})
		require.NoError(t, err)
		if res.Valid {
			t.Errorf("expected partial guess %s=%s to be invalid", p, model.RoleName(!solution[p]))
		}
		if res.Complete {
			t.Error("expected single-person guess to be incomplete")
		}
	}
}

func TestVerifier_VerifyPuzzle_UniquePerMode(t *testing.T) {
	ctx := context.Background()
	gen := generate.NewGenerator(solver.NewGini(), model.GenerationConfig{MaxAttempts: 500, RequireUnique: true}, nil)
	v := NewVerifier(solver.NewGini(), 2)

	for _, mode := range model.Modes {
		p, err := gen.Generate(ctx, rand.New(rand.NewPCG(17, 23)), mode, 5)
		require.NoError(t, err, "mode %s", mode)

		// soundness
		res, err := v.VerifyPuzzle(ctx, p, model.Guess(p.Solution))
		require.NoError(t, err)
		require.True(t, res.Valid, "mode %s: solution rejected", mode)

		// completeness: any single wrong role is rejected
		for _, person := range p.People {
			full := model.Guess(p.Solution.Clone())
			full[person] = !full[person]
			res, err := v.VerifyPuzzle(ctx, p, full)
			require.NoError(t, err)
			require.False(t, res.Valid, "mode %s: flip of %s accepted", mode, person)

			res, err = v.VerifyPuzzle(ctx, p, model.Guess{person: !p.Solution[person]})
			require.NoError(t, err)
			require.False(t, res.Valid, "mode %s: wrong partial guess on %s accepted", mode, person)

			res, err = v.VerifyPuzzle(ctx, p, model.Guess{person: p.Solution[person]})
			require.NoError(t, err)
			require.True(t, res.Valid, "mode %s: correct partial guess on %s rejected", mode, person)
		}
	}
}

func TestVerifier_Verify_NonUniquePartialGuess(t *testing.T) {
	// A and B vouch for each other, C and D vouch for each other; k=2 has two solutions
	statements := model.Statements{
		"A": model.Direct{Target: "B", Value: true},
		"B": model.Direct{Target: "A", Value: true},
		"C": model.Direct{Target: "D", Value: true},
		"D": model.Direct{Target: "C", Value: true},
	}
	v := NewVerifier(solver.NewGini(), 1)

	for _, role := range []bool{true, false} {
		res, err := v.Verify(context.Background(), Submission{
			Statements: statements, TruthTellers: 2, Guess: model.Guess{"A": role},
		})
		require.NoError(t, err)
		require.True(t, res.Valid, "A=%s should be consistent", model.RoleName(role))
	}
}

func TestVerifier_Verify_ValidationErrors(t *testing.T) {
	v := NewVerifier(solver.NewGini(), 1)
	guess := model.Guess{"A": true}

	tests := []struct {
		name  string
		sub   Submission
		field string
	}{
		{
			name:  "no statements",
			sub:   Submission{Guess: guess, TruthTellers: 1},
			field: "statement_data",
		},
		{
			name:  "no guess",
			sub:   Submission{Statements: chainStatements(), TruthTellers: 3},
			field: "guess",
		},
		{
			name:  "count too large",
			sub:   Submission{Statements: chainStatements(), TruthTellers: 6, Guess: guess},
			field: "num_truth_tellers",
		},
		{
			name:  "negative count",
			sub:   Submission{Statements: chainStatements(), TruthTellers: -1, Guess: guess},
			field: "num_truth_tellers",
		},
		{
			name: "unknown reference",
			sub: Submission{
				Statements:   model.Statements{"A": model.Direct{Target: "Q", Value: true}, "B": model.Direct{Target: "A", Value: true}},
				TruthTellers: 2, Guess: guess,
			},
			field: "statement_data.A",
		},
		{
			name: "empty operand",
			sub: Submission{
				Statements:   model.Statements{"A": model.And{Pair: model.Pair{T1: "B", T2: ""}}, "B": model.Direct{Target: "A", Value: true}},
				TruthTellers: 2, Guess: guess,
			},
			field: "statement_data.A",
		},
		{
			name: "duplicate group member",
			sub: Submission{
				Statements: model.Statements{
					"A": model.Group{Members: []model.Person{"B", "B"}, Exactly: 1},
					"B": model.Direct{Target: "A", Value: true},
				},
				TruthTellers: 2, Guess: guess,
			},
			field: "statement_data.A.members",
		},
		{
			name: "negative group count",
			sub: Submission{
				Statements: model.Statements{
					"A": model.Group{Members: []model.Person{"B"}, Exactly: -1},
					"B": model.Direct{Target: "A", Value: true},
				},
				TruthTellers: 2, Guess: guess,
			},
			field: "statement_data.A.exactly",
		},
		{
			name:  "unknown guessed person",
			sub:   Submission{Statements: chainStatements(), TruthTellers: 3, Guess: model.Guess{"Z": true}},
			field: "guess.Z",
		},
		{
			name: "reference outside people",
			sub: Submission{
				People:       []model.Person{"A", "B"},
				Statements:   chainStatements(),
				TruthTellers: 1, Guess: guess,
			},
			field: "statement_data.B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.sub)
			require.Error(t, err)
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestVerifier_VerifyAll(t *testing.T) {
	v := NewVerifier(solver.NewGini(), 2)
	subs := []Submission{
		{Statements: chainStatements(), TruthTellers: 3, Guess: model.Guess{"A": true}},
		{Statements: chainStatements(), TruthTellers: 3, Guess: model.Guess{"A": false}},
		{Statements: chainStatements(), TruthTellers: 3},
	}

	results := v.VerifyAll(context.Background(), subs)
	require.Len(t, results, 3)
	require.True(t, results[0].Valid)
	require.False(t, results[1].Valid)
	require.Empty(t, results[1].Error)
	require.NotEmpty(t, results[2].Error)
}
