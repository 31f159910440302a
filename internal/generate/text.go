package generate

import (
	"fmt"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Text renders a claim as the sentence a player reads
func Text(c model.Claim) string {
	switch v := c.(type) {
	case model.Direct:
		return is(v.Target, v.Value) + "."
	case model.And:
		return fmt.Sprintf("%s AND %s.", is(v.T1, v.C1), is(v.T2, v.C2))
	case model.Or:
		return fmt.Sprintf("%s OR %s.", is(v.T1, v.C1), is(v.T2, v.C2))
	case model.Xor:
		return fmt.Sprintf("Either %s OR %s, but not both.", is(v.T1, v.C1), is(v.T2, v.C2))
	case model.Iff:
		return fmt.Sprintf("%s if and only if %s.", is(v.T1, v.C1), is(v.T2, v.C2))
	case model.If:
		return fmt.Sprintf("If %s, then %s.", is(v.Cond, v.CondVal), is(v.Result, v.ResultVal))
	case model.NestedIf:
		return fmt.Sprintf("If %s, then if %s, then %s.",
			is(v.OuterCond, v.OuterVal), is(v.InnerCond, v.InnerVal), is(v.InnerResult, v.InnerResultVal))
	case model.Group:
		return fmt.Sprintf("Exactly %d of %s are Truth-Tellers.", v.Exactly, list(v.Members))
	}
	return ""
}

// SpeakerText renders c as spoken by speaker; a claim about the speaker's
// own role reads in the first person
func SpeakerText(speaker model.Person, c model.Claim) string {
	if model.IsSelfReference(speaker, c) {
		return fmt.Sprintf("I am a %s.", model.RoleName(c.(model.Direct).Value))
	}
	return Text(c)
}

func is(p model.Person, truthTeller bool) string {
	return fmt.Sprintf("%s is a %s", p, model.RoleName(truthTeller))
}

// list joins names as "A and B" or "A, B, and C"
func list(people []model.Person) string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = string(p)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}
