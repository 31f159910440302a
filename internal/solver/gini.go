package solver

import (
	"context"
	"fmt"

	"github.com/go-air/gini"
	circuit "github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/ppiankov/veritas/internal/logic"
	"github.com/ppiankov/veritas/internal/model"
)

// Gini solves constraint sets with the gini CDCL solver. Formulas are compiled
// into a gini logic circuit; cardinality uses the circuit's sorting network.
type Gini struct{}

// NewGini creates a gini-backed solver
func NewGini() *Gini {
	return &Gini{}
}

// Solve returns one satisfying assignment or ErrUnsatisfiable
func (s *Gini) Solve(ctx context.Context, cs *logic.ConstraintSet) (model.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := newSession(cs)
	if err != nil {
		return nil, err
	}
	switch sess.g.Solve() {
	case 1:
		return sess.model(), nil
	case -1:
		return nil, ErrUnsatisfiable
	default:
		return nil, ErrIndeterminate
	}
}

// Count enumerates distinct assignments of cs.Persons, blocking each model
// found, until limit is reached or the problem becomes unsatisfiable
func (s *Gini) Count(ctx context.Context, cs *logic.ConstraintSet, limit int) (int, error) {
	sess, err := newSession(cs)
	if err != nil {
		return 0, err
	}
	count := 0
	for limit <= 0 || count < limit {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		switch sess.g.Solve() {
		case 1:
			count++
			sess.block(sess.model())
		case -1:
			return count, nil
		default:
			return count, ErrIndeterminate
		}
	}
	return count, nil
}

// session is one freshly built gini instance
type session struct {
	c       *circuit.C
	g       *gini.Gini
	persons []model.Person
	vars    map[model.Person]z.Lit
}

func newSession(cs *logic.ConstraintSet) (*session, error) {
	sess := &session{
		c:       circuit.NewC(),
		persons: cs.Persons,
		vars:    make(map[model.Person]z.Lit, len(cs.Persons)),
	}
	for _, p := range cs.Persons {
		sess.vars[p] = sess.c.Lit()
	}

	roots := make([]z.Lit, 0, len(cs.Constraints))
	for i, con := range cs.Constraints {
		root, err := sess.compile(con.Formula)
		if err != nil {
			return nil, fmt.Errorf("constraint %d (%s): %w", i, con.Origin, err)
		}
		roots = append(roots, root)
	}

	sess.g = gini.New()
	sess.c.ToCnf(sess.g)
	for _, root := range roots {
		sess.g.Add(root)
		sess.g.Add(z.LitNull)
	}
	return sess, nil
}

func (s *session) truth() z.Lit { return s.c.T }
func (s *session) falsity() z.Lit { return s.c.F }

func (s *session) compile(f logic.Formula) (z.Lit, error) {
	switch v := f.(type) {
	case logic.Var:
		lit, ok := s.vars[model.Person(v)]
		if !ok {
			return z.LitNull, fmt.Errorf("unknown person %s", string(v))
		}
		return lit, nil
	case logic.Const:
		if v {
			return s.truth(), nil
		}
		return s.falsity(), nil
	case logic.Not:
		inner, err := s.compile(v.F)
		if err != nil {
			return z.LitNull, err
		}
		return inner.Not(), nil
	case logic.And:
		if len(v) == 0 {
			return s.truth(), nil
		}
		lits, err := s.compileAll(v)
		if err != nil {
			return z.LitNull, err
		}
		return s.c.Ands(lits...), nil
	case logic.Or:
		if len(v) == 0 {
			return s.falsity(), nil
		}
		lits, err := s.compileAll(v)
		if err != nil {
			return z.LitNull, err
		}
		return s.c.Ors(lits...), nil
	case logic.Implies:
		a, b, err := s.compilePair(v.If, v.Then)
		if err != nil {
			return z.LitNull, err
		}
		return s.c.Or(a.Not(), b), nil
	case logic.Xor:
		a, b, err := s.compilePair(v.A, v.B)
		if err != nil {
			return z.LitNull, err
		}
		return s.xor(a, b), nil
	case logic.Iff:
		a, b, err := s.compilePair(v.A, v.B)
		if err != nil {
			return z.LitNull, err
		}
		return s.xor(a, b).Not(), nil
	case logic.Exactly:
		lits := make([]z.Lit, len(v.Vars))
		for i, p := range v.Vars {
			lit, ok := s.vars[p]
			if !ok {
				return z.LitNull, fmt.Errorf("unknown person %s", p)
			}
			lits[i] = lit
		}
		return s.exactly(lits, v.K), nil
	}
	return z.LitNull, fmt.Errorf("unsupported formula %T", f)
}

func (s *session) compileAll(fs []logic.Formula) ([]z.Lit, error) {
	lits := make([]z.Lit, len(fs))
	for i, f := range fs {
		lit, err := s.compile(f)
		if err != nil {
			return nil, err
		}
		lits[i] = lit
	}
	return lits, nil
}

func (s *session) compilePair(a, b logic.Formula) (z.Lit, z.Lit, error) {
	la, err := s.compile(a)
	if err != nil {
		return z.LitNull, z.LitNull, err
	}
	lb, err := s.compile(b)
	if err != nil {
		return z.LitNull, z.LitNull, err
	}
	return la, lb, nil
}

func (s *session) xor(a, b z.Lit) z.Lit {
	return s.c.Or(s.c.And(a, b.Not()), s.c.And(a.Not(), b))
}

// exactly is atMost(k) ∧ ¬atMost(k-1) on a sorting network.
// Out-of-range bounds are resolved here rather than inside the network.
func (s *session) exactly(lits []z.Lit, k int) z.Lit {
	n := len(lits)
	if k < 0 || k > n {
		return s.falsity()
	}
	if n == 0 {
		return s.truth()
	}
	sorter := s.c.CardSort(lits)
	atMostK := s.truth()
	if k < n {
		atMostK = sorter.Leq(k)
	}
	atLeastK := s.truth()
	if k > 0 {
		atLeastK = sorter.Leq(k - 1).Not()
	}
	return s.c.And(atMostK, atLeastK)
}

func (s *session) model() model.Assignment {
	a := make(model.Assignment, len(s.persons))
	for _, p := range s.persons {
		a[p] = s.g.Value(s.vars[p])
	}
	return a
}

// block forbids the given person assignment in later solves
func (s *session) block(a model.Assignment) {
	for _, p := range s.persons {
		if a[p] {
			s.g.Add(s.vars[p].Not())
		} else {
			s.g.Add(s.vars[p])
		}
	}
	s.g.Add(z.LitNull)
}
