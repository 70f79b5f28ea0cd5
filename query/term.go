package query

import (
	"fmt"

	"simpledb/record"
	"simpledb/scan"
	"simpledb/types"
)

// Term is a comparison between two expressions of the form "lhs = rhs".
// It is satisfied with respect to a scan iff the two expressions evaluate to
// equal constants.
type Term struct {
	lhs *Expression
	rhs *Expression
}

// NewTerm creates a term equating the two expressions.
func NewTerm(lhs, rhs *Expression) *Term {
	return &Term{lhs: lhs, rhs: rhs}
}

// IsSatisfied returns true if both expressions evaluate to the same constant
// with respect to the scan's current record.
func (t *Term) IsSatisfied(s scan.Scan) (bool, error) {
	lhsVal, err := t.lhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	rhsVal, err := t.rhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	return lhsVal.Equals(rhsVal), nil
}

// AppliesTo reports whether both of the term's expressions can be evaluated
// against records of the specified schema.
func (t *Term) AppliesTo(schema *record.Schema) bool {
	return t.lhs.AppliesTo(schema) && t.rhs.AppliesTo(schema)
}

// EquatesWithConstant determines if this term is of the form "F = c" where F
// is the specified field and c is some constant. If so, the constant is
// returned; otherwise nil.
func (t *Term) EquatesWithConstant(fieldName string) *types.Constant {
	if t.lhs.IsFieldName() && t.lhs.AsFieldName() == fieldName && !t.rhs.IsFieldName() {
		return t.rhs.AsConstant()
	}
	if t.rhs.IsFieldName() && t.rhs.AsFieldName() == fieldName && !t.lhs.IsFieldName() {
		return t.lhs.AsConstant()
	}
	return nil
}

// EquatesWithField determines if this term is of the form "F1 = F2" where F1
// is the specified field and F2 is another field. If so, the name of the
// other field is returned; otherwise the empty string.
func (t *Term) EquatesWithField(fieldName string) string {
	if t.lhs.IsFieldName() && t.lhs.AsFieldName() == fieldName && t.rhs.IsFieldName() {
		return t.rhs.AsFieldName()
	}
	if t.rhs.IsFieldName() && t.rhs.AsFieldName() == fieldName && t.lhs.IsFieldName() {
		return t.lhs.AsFieldName()
	}
	return ""
}

func (t *Term) String() string {
	return fmt.Sprintf("%s = %s", t.lhs, t.rhs)
}
