package query

import (
	"fmt"

	"simpledb/record"
	"simpledb/scan"
	"simpledb/types"
)

// Connective joins two adjacent terms of a predicate.
type Connective string

const (
	And Connective = "and"
	Or  Connective = "or"
)

// Predicate is a list of terms joined by and/or connectives. The connective
// at position i combines the running result with term i+1; connectives are
// kept in a list parallel to the terms.
type Predicate struct {
	terms       []*Term
	connectives []Connective
}

// NewPredicate creates an empty predicate, corresponding to TRUE.
func NewPredicate() *Predicate {
	return &Predicate{}
}

// NewPredicateFromTerm creates a predicate holding the single specified term.
func NewPredicateFromTerm(term *Term) *Predicate {
	return &Predicate{terms: []*Term{term}}
}

// AddTerm appends a term joined to the existing terms by the given
// connective. The connective is ignored for the first term.
func (p *Predicate) AddTerm(connective Connective, term *Term) {
	if len(p.terms) > 0 {
		p.connectives = append(p.connectives, connective)
	}
	p.terms = append(p.terms, term)
}

// ConjoinWith appends the terms of the specified predicate to this one,
// joining its first term with And and keeping its own connectives between
// the rest. Because evaluation is strictly left to right, the result is the
// conjunction of the two predicates only when the specified predicate has no
// Or connective: appending "b or c" to "a" evaluates as "((a and b) or c)".
func (p *Predicate) ConjoinWith(other *Predicate) {
	for i, term := range other.terms {
		connective := And
		if i > 0 {
			connective = other.connectives[i-1]
		}
		p.AddTerm(connective, term)
	}
}

// IsEmpty returns true if the predicate has no terms.
func (p *Predicate) IsEmpty() bool {
	return len(p.terms) == 0
}

// IsSatisfied returns true if the predicate evaluates to true with respect to
// the scan's current record. An empty predicate is trivially satisfied.
//
// Evaluation is strictly left to right with no operator precedence: the
// connective at position i combines the running result with the result of
// term i+1, so "a=1 or b=2 and c=3" evaluates as "((a=1) or (b=2)) and (c=3)".
func (p *Predicate) IsSatisfied(s scan.Scan) (bool, error) {
	if len(p.terms) == 0 {
		return true, nil
	}

	result, err := p.terms[0].IsSatisfied(s)
	if err != nil {
		return false, err
	}
	for i, connective := range p.connectives {
		next, err := p.terms[i+1].IsSatisfied(s)
		if err != nil {
			return false, err
		}
		switch connective {
		case And:
			result = result && next
		case Or:
			result = result || next
		default:
			return false, fmt.Errorf("no such logic operator %q", connective)
		}
	}
	return result, nil
}

// SelectSubPredicate returns the sub-predicate consisting of the terms that
// apply to the specified schema, or nil if there are none.
func (p *Predicate) SelectSubPredicate(schema *record.Schema) *Predicate {
	result := NewPredicate()
	for _, term := range p.terms {
		if term.AppliesTo(schema) {
			result.AddTerm(And, term)
		}
	}
	if len(result.terms) == 0 {
		return nil
	}
	return result
}

// JoinSubPredicate returns the sub-predicate consisting of terms that apply
// to the union of the two specified schemas but not to either schema
// separately, or nil if there are none.
func (p *Predicate) JoinSubPredicate(schema1, schema2 *record.Schema) *Predicate {
	result := NewPredicate()
	unionSchema := record.NewSchema()
	unionSchema.AddAll(schema1)
	unionSchema.AddAll(schema2)

	for _, term := range p.terms {
		if !term.AppliesTo(schema1) && !term.AppliesTo(schema2) && term.AppliesTo(unionSchema) {
			result.AddTerm(And, term)
		}
	}
	if len(result.terms) == 0 {
		return nil
	}
	return result
}

// EquatesWithConstant determines if there is a term of the form "F=c" where F
// is the specified field and c is some constant. If so, the constant is
// returned; otherwise nil.
func (p *Predicate) EquatesWithConstant(fieldName string) *types.Constant {
	for _, term := range p.terms {
		if c := term.EquatesWithConstant(fieldName); c != nil {
			return c
		}
	}
	return nil
}

// EquatesWithField determines if there is a term of the form "F1=F2" where F1
// is the specified field and F2 is another field. If so, the name of the
// other field is returned; otherwise the empty string.
func (p *Predicate) EquatesWithField(fieldName string) string {
	for _, term := range p.terms {
		if f := term.EquatesWithField(fieldName); f != "" {
			return f
		}
	}
	return ""
}

// String returns a string representation of the predicate.
func (p *Predicate) String() string {
	if len(p.terms) == 0 {
		return ""
	}

	result := p.terms[0].String()
	for i, connective := range p.connectives {
		result += fmt.Sprintf(" %s %s", connective, p.terms[i+1])
	}
	return result
}
