// Package generate builds truth-teller/liar puzzles: it assigns roles, writes
// one role-consistent statement per person and confirms the result with a solver.
package generate

import (
	"fmt"
	"math/rand/v2"

	"github.com/ppiankov/veritas/internal/model"
)

// AssignRoles picks model.RequiredTruthTellers(len(people)) truth-tellers uniformly at random
func AssignRoles(rng *rand.Rand, people []model.Person) (model.Assignment, int, error) {
	n := len(people)
	k := model.RequiredTruthTellers(n)
	if k > n {
		return nil, k, fmt.Errorf("need %d truth-tellers but only %d people", k, n)
	}

	roles := make(model.Assignment, n)
	for i, idx := range rng.Perm(n) {
		roles[people[idx]] = i < k
	}
	return roles, k, nil
}
