// Package types holds the type representation shared between the parser and
// the later compiler phases.
//
// The parser only builds types; it never checks that a named type exists.
// Resolution of names such as "i32" or "Point" is the type checker's job.
package types

import "fmt"

// Kind distinguishes the shapes a Type can take.
type Kind int

const (
	// KindUnit is the empty tuple, the default return type.
	KindUnit Kind = iota
	// KindNamed is a type referred to by name: i32, bool, Point.
	KindNamed
	// KindPointer is ->T or ->mut T.
	KindPointer
)

// Type is an immutable type value.
// Pointer types own their pointee through Elem.
type Type struct {
	Kind    Kind
	Name    string // KindNamed only
	Elem    *Type  // KindPointer only
	Mutable bool   // KindPointer only: ->mut T
}

// Unit is the unit type, used when a function declares no return type.
var Unit = Type{Kind: KindUnit}

// FromString returns the type named name. Any name is accepted.
func FromString(name string) Type {
	return Type{Kind: KindNamed, Name: name}
}

// Pointer returns a pointer to elem. Mutable pointers are written ->mut T.
func Pointer(elem Type, mutable bool) Type {
	return Type{Kind: KindPointer, Elem: &elem, Mutable: mutable}
}

// IsUnit reports whether t is the unit type.
func (t Type) IsUnit() bool { return t.Kind == KindUnit }

// Equal reports whether t and o describe the same type.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindNamed:
		return t.Name == o.Name
	case KindPointer:
		return t.Mutable == o.Mutable && t.Elem.Equal(*o.Elem)
	}
	return true
}

// String renders the type in source syntax.
func (t Type) String() string {
	switch t.Kind {
	case KindNamed:
		return t.Name
	case KindPointer:
		if t.Mutable {
			return fmt.Sprintf("->mut %s", t.Elem.String())
		}
		return "->" + t.Elem.String()
	}
	return "()"
}
