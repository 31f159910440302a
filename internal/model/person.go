package model

import "sort"

// Person is an opaque seat label (A, B, ..., Z, AA, AB, ...)
type Person string

// Assignment maps each person to their role: true for truth-teller, false for liar
type Assignment map[Person]bool

// Guess is a caller-supplied, possibly partial, role assignment
type Guess map[Person]bool

// Labels returns n sequential person labels in spreadsheet-column order
func Labels(n int) []Person {
	people := make([]Person, 0, max(n, 0))
	for i := 0; i < n; i++ {
		people = append(people, Person(columnName(i)))
	}
	return people
}

func columnName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

// RequiredTruthTellers returns max(2, round(0.6n)) computed in integer arithmetic
func RequiredTruthTellers(n int) int {
	k := (6*n + 5) / 10
	if k < 2 {
		return 2
	}
	return k
}

// TruthTellers counts the truth-tellers in the assignment
func (a Assignment) TruthTellers() int {
	count := 0
	for _, isTruthTeller := range a {
		if isTruthTeller {
			count++
		}
	}
	return count
}

// Clone returns an independent copy
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for p, v := range a {
		out[p] = v
	}
	return out
}

// SortedPersons returns the keys of a person-keyed map in label order
func SortedPersons[V any](m map[Person]V) []Person {
	people := make([]Person, 0, len(m))
	for p := range m {
		people = append(people, p)
	}
	SortPersons(people)
	return people
}

// SortPersons orders labels the way Labels generates them (shorter first, then lexical)
func SortPersons(people []Person) {
	sort.Slice(people, func(i, j int) bool {
		if len(people[i]) != len(people[j]) {
			return len(people[i]) < len(people[j])
		}
		return people[i] < people[j]
	})
}

// RoleName renders a role the way puzzle text does
func RoleName(truthTeller bool) string {
	if truthTeller {
		return "Truth-Teller"
	}
	return "Liar"
}
