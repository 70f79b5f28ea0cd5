package query

import (
	"simpledb/record"
	"simpledb/scan"
	"simpledb/types"
)

// Expression is either a constant or a field reference. Evaluating it
// against a scan yields the constant itself, or the current value of the
// field in the scan's current record.
type Expression struct {
	value     *types.Constant
	fieldName string
}

// NewConstantExpression creates an expression holding a constant.
func NewConstantExpression(value *types.Constant) *Expression {
	return &Expression{value: value}
}

// NewFieldExpression creates an expression referencing a field.
func NewFieldExpression(fieldName string) *Expression {
	return &Expression{fieldName: fieldName}
}

// IsFieldName returns true if the expression is a field reference.
func (e *Expression) IsFieldName() bool {
	return e.value == nil
}

// AsConstant returns the constant the expression holds, or nil for a field
// reference.
func (e *Expression) AsConstant() *types.Constant {
	return e.value
}

// AsFieldName returns the referenced field name, or the empty string for a
// constant.
func (e *Expression) AsFieldName() string {
	return e.fieldName
}

// Evaluate returns the expression's value with respect to the scan's current
// record.
func (e *Expression) Evaluate(s scan.Scan) (*types.Constant, error) {
	if e.value != nil {
		return e.value, nil
	}
	return s.GetVal(e.fieldName)
}

// AppliesTo reports whether the expression can be evaluated against records
// of the specified schema.
func (e *Expression) AppliesTo(schema *record.Schema) bool {
	if e.value != nil {
		return true
	}
	return schema.HasField(e.fieldName)
}

func (e *Expression) String() string {
	if e.value != nil {
		return e.value.String()
	}
	return e.fieldName
}
