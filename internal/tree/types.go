package tree

import "reflect"

// Type is the tag a node carries for the value it produces or consumes.
// Tags compare by exact identity: a named type such as `type Angle float64`
// is distinct from float64.
type Type struct {
	rt reflect.Type
}

// TypeOf returns the tag for T.
func TypeOf[T any]() Type {
	return Type{rt: reflect.TypeFor[T]()}
}

func (t Type) IsZero() bool {
	return t.rt == nil
}

func (t Type) String() string {
	if t.rt == nil {
		return "<none>"
	}
	return t.rt.String()
}
