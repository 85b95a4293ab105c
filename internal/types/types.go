// Package types implements the small, closed type system of Alan: two
// scalar kinds, arrays over them, and the reference-parameter wrapper.
package types

import "fmt"

// Type is the interface implemented by every Alan data type.
type Type interface {
	// Repr returns a human-readable representation of the type, used in
	// diagnostics.
	Repr() string

	// equals reports structural equality; arrays compare only their
	// element types, not their sizes. It should not be called outside this
	// package; use Equals.
	equals(other Type) bool
}

// Equals reports whether two types are structurally identical, ignoring
// array sizes.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.equals(b)
}

// -----------------------------------------------------------------------------

// Primitive is one of Alan's two scalar kinds.
type Primitive int

const (
	Int Primitive = iota
	Byte
)

func (p Primitive) Repr() string {
	switch p {
	case Int:
		return "int"
	case Byte:
		return "byte"
	default:
		return "<unknown primitive>"
	}
}

func (p Primitive) equals(other Type) bool {
	op, ok := other.(Primitive)
	return ok && p == op
}

// Void is the unit type of a procedure (a function with no result).
type voidType struct{}

// Void is the singleton VOID type.
var Void Type = voidType{}

func (voidType) Repr() string { return "proc" }

func (voidType) equals(other Type) bool {
	_, ok := other.(voidType)
	return ok
}

// -----------------------------------------------------------------------------

// UnspecifiedSize marks an Array whose size was omitted, which is only legal
// for array-typed formal parameters ("arrays decay to pointers").
const UnspecifiedSize = -1

// Array is the type of a fixed-size (or, for parameters, unspecified-size)
// sequence of Element.
type Array struct {
	Element Type
	Size    int // UnspecifiedSize for parameter-only "open" arrays
}

func (a *Array) Repr() string {
	if a.Size == UnspecifiedSize {
		return fmt.Sprintf("%s[]", a.Element.Repr())
	}
	return fmt.Sprintf("%s[%d]", a.Element.Repr(), a.Size)
}

func (a *Array) equals(other Type) bool {
	oa, ok := other.(*Array)
	if !ok {
		return false
	}
	// Per spec §4.3: array formal/actual compatibility ignores size —
	// arrays decay to pointers, so only the element type must agree.
	return Equals(a.Element, oa.Element)
}

// NewArray builds an array type of the given size (UnspecifiedSize for an
// open parameter array).
func NewArray(elem Type, size int) *Array {
	return &Array{Element: elem, Size: size}
}

// -----------------------------------------------------------------------------

// Reference wraps a type to mark a by-reference formal parameter. It must
// never appear outside a parameter slot (invariant 2 of the data model).
type Reference struct {
	Inner Type
}

func (r *Reference) Repr() string {
	return "reference " + r.Inner.Repr()
}

func (r *Reference) equals(other Type) bool {
	or, ok := other.(*Reference)
	return ok && Equals(r.Inner, or.Inner)
}

// NewReference wraps inner as a reference-parameter type.
func NewReference(inner Type) *Reference {
	return &Reference{Inner: inner}
}

// Deref strips a single layer of Reference, returning the inner type and
// true, or the type unchanged and false if it was not a reference.
func Deref(t Type) (Type, bool) {
	if r, ok := t.(*Reference); ok {
		return r.Inner, true
	}
	return t, false
}

// IsArithmetic reports whether t is one of the two scalar kinds operated on
// by BinOp/UnOp/comparisons.
func IsArithmetic(t Type) bool {
	_, ok := t.(Primitive)
	return ok
}

// Matches implements the formal/actual compatibility rule of spec §4.3.
// isLvalue indicates whether the actual expression being checked against a
// REFERENCE formal is itself an l-value of type actual.
func Matches(formal, actual Type, isLvalue bool) bool {
	if ref, ok := formal.(*Reference); ok {
		return isLvalue && Equals(ref.Inner, actual)
	}
	return Equals(formal, actual)
}
