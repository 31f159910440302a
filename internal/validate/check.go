// Package validate verifies player guesses and rejects malformed puzzle data.
package validate

import (
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
)

// Check validates a submission's structure and returns the puzzle's people in label order
func Check(sub Submission) ([]model.Person, error) {
	if len(sub.Statements) == 0 {
		return nil, model.Invalid("statement_data", "no statements")
	}
	if len(sub.Guess) == 0 {
		return nil, model.Invalid("guess", "no roles guessed")
	}

	people := sub.People
	if len(people) == 0 {
		people = sub.Statements.Speakers()
	} else {
		people = append([]model.Person(nil), people...)
		model.SortPersons(people)
	}

	known := make(map[model.Person]bool, len(people))
	for _, p := range people {
		if p == "" {
			return nil, model.Invalid("people", "empty person label")
		}
		if known[p] {
			return nil, model.Invalid("people", "duplicate person %s", p)
		}
		known[p] = true
	}

	if sub.TruthTellers < 0 || sub.TruthTellers > len(people) {
		return nil, model.Invalid("num_truth_tellers", "%d outside [0, %d]", sub.TruthTellers, len(people))
	}

	for _, speaker := range sub.Statements.Speakers() {
		field := fmt.Sprintf("statement_data.%s", speaker)
		if !known[speaker] {
			return nil, model.Invalid(field, "speaker is not in the puzzle")
		}
		if err := checkClaim(field, sub.Statements[speaker], known); err != nil {
			return nil, err
		}
	}

	for _, p := range model.SortedPersons(sub.Guess) {
		if !known[p] {
			return nil, model.Invalid("guess."+string(p), "unknown person")
		}
	}
	return people, nil
}

func checkClaim(field string, c model.Claim, known map[model.Person]bool) error {
	if c == nil {
		return model.Invalid(field, "missing claim")
	}
	if g, ok := c.(model.Group); ok {
		if len(g.Members) == 0 {
			return model.Invalid(field+".members", "empty group")
		}
		if g.Exactly < 0 {
			return model.Invalid(field+".exactly", "negative count %d", g.Exactly)
		}
		seen := make(map[model.Person]bool, len(g.Members))
		for _, m := range g.Members {
			if seen[m] {
				return model.Invalid(field+".members", "duplicate member %s", m)
			}
			seen[m] = true
		}
	}
	for _, ref := range c.Refs() {
		if ref == "" {
			return model.Invalid(field, "empty operand in %s claim", c.Kind())
		}
		if !known[ref] {
			return model.Invalid(field, "unknown person %s", ref)
		}
	}
	return nil
}
