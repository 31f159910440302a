package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// wireClaim is the JSON shape shared by every kind. Pointer fields let the
// decoder tell a missing operand from a false/zero one.
type wireClaim struct {
	Kind Kind `json:"kind"`
	Mode Kind `json:"mode,omitempty"` // legacy discriminant, decode only

	Target     *Person `json:"target,omitempty"`
	Claim      *bool   `json:"claim,omitempty"`
	TruthValue *bool   `json:"truth_value,omitempty"` // legacy alias of claim, decode only

	T1 *Person `json:"t1,omitempty"`
	C1 *bool   `json:"c1,omitempty"`
	T2 *Person `json:"t2,omitempty"`
	C2 *bool   `json:"c2,omitempty"`

	Cond      *Person `json:"cond,omitempty"`
	CondVal   *bool   `json:"cond_val,omitempty"`
	Result    *Person `json:"result,omitempty"`
	ResultVal *bool   `json:"result_val,omitempty"`

	OuterCond      *Person `json:"outer_cond,omitempty"`
	OuterVal       *bool   `json:"outer_val,omitempty"`
	InnerCond      *Person `json:"inner_cond,omitempty"`
	InnerVal       *bool   `json:"inner_val,omitempty"`
	InnerResult    *Person `json:"inner_result,omitempty"`
	InnerResultVal *bool   `json:"inner_result_val,omitempty"`

	Members []Person `json:"members,omitempty"`
	Exactly *int     `json:"exactly,omitempty"`
}

// EncodeClaim renders a claim in the wire schema
func EncodeClaim(c Claim) ([]byte, error) {
	w, err := toWire(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// DecodeClaim parses one wire-schema claim. Structural problems come back as *ValidationError.
func DecodeClaim(data []byte) (Claim, error) {
	var w wireClaim
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, Invalid("", "malformed statement: %v", err)
	}
	return fromWire(w)
}

func toWire(c Claim) (wireClaim, error) {
	switch v := c.(type) {
	case Direct:
		return wireClaim{Kind: KindDirect, Target: &v.Target, Claim: &v.Value}, nil
	case And:
		return pairWire(KindAnd, v.Pair), nil
	case Or:
		return pairWire(KindOr, v.Pair), nil
	case Xor:
		return pairWire(KindXor, v.Pair), nil
	case Iff:
		return pairWire(KindIff, v.Pair), nil
	case If:
		return wireClaim{Kind: KindIf, Cond: &v.Cond, CondVal: &v.CondVal, Result: &v.Result, ResultVal: &v.ResultVal}, nil
	case NestedIf:
		return wireClaim{
			Kind:           KindNestedIf,
			OuterCond:      &v.OuterCond,
			OuterVal:       &v.OuterVal,
			InnerCond:      &v.InnerCond,
			InnerVal:       &v.InnerVal,
			InnerResult:    &v.InnerResult,
			InnerResultVal: &v.InnerResultVal,
		}, nil
	case Group:
		members := v.Members
		if members == nil {
			members = []Person{}
		}
		return wireClaim{Kind: KindGroup, Members: members, Exactly: &v.Exactly}, nil
	}
	return wireClaim{}, fmt.Errorf("unsupported claim type %T", c)
}

func pairWire(k Kind, p Pair) wireClaim {
	return wireClaim{Kind: k, T1: &p.T1, C1: &p.C1, T2: &p.T2, C2: &p.C2}
}

func fromWire(w wireClaim) (Claim, error) {
	kind := w.Kind
	if kind == "" {
		kind = w.Mode
	}
	if kind == "" && w.Target != nil {
		kind = KindDirect // legacy {target, truth_value} records carry no discriminant
	}
	kind = Kind(strings.ToUpper(string(kind)))

	r := &fieldReader{}
	var c Claim
	switch kind {
	case KindDirect:
		value := w.Claim
		if value == nil {
			value = w.TruthValue
		}
		c = Direct{Target: r.person("target", w.Target), Value: r.flag("claim", value)}
	case KindAnd:
		c = And{r.pair(w)}
	case KindOr:
		c = Or{r.pair(w)}
	case KindXor:
		c = Xor{r.pair(w)}
	case KindIff:
		c = Iff{r.pair(w)}
	case KindIf:
		c = If{
			Cond:      r.person("cond", w.Cond),
			CondVal:   r.flag("cond_val", w.CondVal),
			Result:    r.person("result", w.Result),
			ResultVal: r.flag("result_val", w.ResultVal),
		}
	case KindNestedIf:
		c = NestedIf{
			OuterCond:      r.person("outer_cond", w.OuterCond),
			OuterVal:       r.flag("outer_val", w.OuterVal),
			InnerCond:      r.person("inner_cond", w.InnerCond),
			InnerVal:       r.flag("inner_val", w.InnerVal),
			InnerResult:    r.person("inner_result", w.InnerResult),
			InnerResultVal: r.flag("inner_result_val", w.InnerResultVal),
		}
	case KindGroup:
		if len(w.Members) == 0 {
			r.fail("members", "missing")
		}
		exactly := 0
		if w.Exactly == nil {
			r.fail("exactly", "missing")
		} else {
			exactly = *w.Exactly
		}
		c = Group{Members: w.Members, Exactly: exactly}
	case "":
		return nil, Invalid("kind", "missing")
	default:
		return nil, Invalid("kind", "unknown operator kind %q", kind)
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// fieldReader dereferences wire fields and records the first missing one
type fieldReader struct {
	err *ValidationError
}

func (r *fieldReader) fail(field, reason string) {
	if r.err == nil {
		r.err = &ValidationError{Field: field, Reason: reason}
	}
}

func (r *fieldReader) person(field string, p *Person) Person {
	if p == nil || *p == "" {
		r.fail(field, "missing")
		return ""
	}
	return *p
}

func (r *fieldReader) flag(field string, b *bool) bool {
	if b == nil {
		r.fail(field, "missing")
		return false
	}
	return *b
}

func (r *fieldReader) pair(w wireClaim) Pair {
	return Pair{
		T1: r.person("t1", w.T1),
		C1: r.flag("c1", w.C1),
		T2: r.person("t2", w.T2),
		C2: r.flag("c2", w.C2),
	}
}

// MarshalJSON encodes statements as {"speaker": <wire claim>}
func (s Statements) MarshalJSON() ([]byte, error) {
	out := make(map[Person]json.RawMessage, len(s))
	for speaker, c := range s {
		data, err := EncodeClaim(c)
		if err != nil {
			return nil, fmt.Errorf("statement of %s: %w", speaker, err)
		}
		out[speaker] = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes speaker-keyed wire claims; field errors are prefixed with the speaker
func (s *Statements) UnmarshalJSON(data []byte) error {
	var raw map[Person]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Invalid("statement_data", "malformed: %v", err)
	}
	out := make(Statements, len(raw))
	for speaker, msg := range raw {
		c, err := DecodeClaim(msg)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				field := string(speaker)
				if ve.Field != "" {
					field += "." + ve.Field
				}
				return &ValidationError{Field: field, Reason: ve.Reason}
			}
			return err
		}
		out[speaker] = c
	}
	*s = out
	return nil
}
