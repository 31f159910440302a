package model

// Kind is the operator kind of a statement; the string values are the wire names
type Kind string

const (
	KindDirect   Kind = "DIRECT"
	KindAnd      Kind = "AND"
	KindOr       Kind = "OR"
	KindIf       Kind = "IF"
	KindXor      Kind = "XOR"
	KindIff      Kind = "IFF"
	KindNestedIf Kind = "NESTED_IF"
	KindGroup    Kind = "GROUP"
)

// Claim is the logical content of one statement. The set of implementations is
// closed: Direct, And, Or, Xor, Iff, If, NestedIf and Group.
type Claim interface {
	Kind() Kind
	// Refs lists the persons the claim talks about, in operand order
	Refs() []Person
	claim()
}

// Direct claims "Target is a <Value>". Target may be the speaker (self-reference).
type Direct struct {
	Target Person
	Value  bool
}

// Pair holds the operands shared by the two-place connectives
type Pair struct {
	T1 Person
	C1 bool
	T2 Person
	C2 bool
}

func (p Pair) Refs() []Person { return []Person{p.T1, p.T2} }

// And claims both atoms hold
type And struct{ Pair }

// Or claims at least one atom holds
type Or struct{ Pair }

// Xor claims exactly one atom holds
type Xor struct{ Pair }

// Iff claims both atoms agree
type Iff struct{ Pair }

// If claims (Cond is CondVal) implies (Result is ResultVal)
type If struct {
	Cond      Person
	CondVal   bool
	Result    Person
	ResultVal bool
}

// NestedIf claims outer ⇒ (inner ⇒ result)
type NestedIf struct {
	OuterCond      Person
	OuterVal       bool
	InnerCond      Person
	InnerVal       bool
	InnerResult    Person
	InnerResultVal bool
}

// Group claims exactly Exactly of Members are truth-tellers
type Group struct {
	Members []Person
	Exactly int
}

func (Direct) Kind() Kind   { return KindDirect }
func (And) Kind() Kind      { return KindAnd }
func (Or) Kind() Kind       { return KindOr }
func (Xor) Kind() Kind      { return KindXor }
func (Iff) Kind() Kind      { return KindIff }
func (If) Kind() Kind       { return KindIf }
func (NestedIf) Kind() Kind { return KindNestedIf }
func (Group) Kind() Kind    { return KindGroup }

func (d Direct) Refs() []Person { return []Person{d.Target} }
func (c If) Refs() []Person     { return []Person{c.Cond, c.Result} }
func (n NestedIf) Refs() []Person {
	return []Person{n.OuterCond, n.InnerCond, n.InnerResult}
}
func (g Group) Refs() []Person { return append([]Person(nil), g.Members...) }

func (Direct) claim()   {}
func (And) claim()      {}
func (Or) claim()       {}
func (Xor) claim()      {}
func (Iff) claim()      {}
func (If) claim()       {}
func (NestedIf) claim() {}
func (Group) claim()    {}

// IsSelfReference reports whether c is a speaker's claim about themself
func IsSelfReference(speaker Person, c Claim) bool {
	d, ok := c.(Direct)
	return ok && d.Target == speaker
}

// Statements maps each speaker to their claim
type Statements map[Person]Claim

// Speakers returns the statement owners in label order
func (s Statements) Speakers() []Person {
	return SortedPersons(s)
}

// KindCounts tallies claims per kind
func (s Statements) KindCounts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, c := range s {
		counts[c.Kind()]++
	}
	return counts
}
