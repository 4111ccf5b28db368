package tree

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPrimitive = errors.New("invalid primitive")

// Terminal is a leaf primitive: it extracts a value of type Output from the
// evaluation context.
type Terminal[C any] struct {
	Name    string
	Output  Type
	Extract func(C) any
}

// NewTerminal builds a terminal whose output tag is derived from the
// extractor's return type.
func NewTerminal[C, O any](name string, extract func(C) O) *Terminal[C] {
	return &Terminal[C]{
		Name:   name,
		Output: TypeOf[O](),
		Extract: func(ctx C) any {
			return extract(ctx)
		},
	}
}

// Constant builds a terminal that ignores the context.
func Constant[C, O any](name string, value O) *Terminal[C] {
	return NewTerminal(name, func(C) O { return value })
}

func (t *Terminal[C]) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: terminal is nil", ErrInvalidPrimitive)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: terminal name is required", ErrInvalidPrimitive)
	}
	if t.Output.IsZero() {
		return fmt.Errorf("%w: terminal %s has no output type", ErrInvalidPrimitive, t.Name)
	}
	if t.Extract == nil {
		return fmt.Errorf("%w: terminal %s has no extractor", ErrInvalidPrimitive, t.Name)
	}
	return nil
}

func (t *Terminal[C]) String() string {
	return t.Name + ":" + t.Output.String()
}

// Function is a non-terminal primitive of fixed arity. All operands share the
// Input type.
type Function struct {
	Name   string
	Arity  int
	Input  Type
	Output Type
	Apply  func(args []any) any
}

// NewFunction builds a function whose input and output tags are derived from
// fn's signature, so the declared types always match the values it consumes
// and produces.
func NewFunction[I, O any](name string, arity int, fn func(args []I) O) *Function {
	return &Function{
		Name:   name,
		Arity:  arity,
		Input:  TypeOf[I](),
		Output: TypeOf[O](),
		Apply: func(args []any) any {
			in := make([]I, len(args))
			for i, arg := range args {
				in[i], _ = arg.(I)
			}
			return fn(in)
		},
	}
}

func Unary[I, O any](name string, fn func(I) O) *Function {
	return NewFunction(name, 1, func(args []I) O {
		return fn(args[0])
	})
}

func Binary[I, O any](name string, fn func(a, b I) O) *Function {
	return NewFunction(name, 2, func(args []I) O {
		return fn(args[0], args[1])
	})
}

func (f *Function) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: function is nil", ErrInvalidPrimitive)
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: function name is required", ErrInvalidPrimitive)
	}
	if f.Arity <= 0 {
		return fmt.Errorf("%w: function %s arity must be > 0, got %d", ErrInvalidPrimitive, f.Name, f.Arity)
	}
	if f.Input.IsZero() || f.Output.IsZero() {
		return fmt.Errorf("%w: function %s must declare input and output types", ErrInvalidPrimitive, f.Name)
	}
	if f.Apply == nil {
		return fmt.Errorf("%w: function %s has no implementation", ErrInvalidPrimitive, f.Name)
	}
	return nil
}

func (f *Function) String() string {
	return fmt.Sprintf("%s/%d:%s->%s", f.Name, f.Arity, f.Input, f.Output)
}
