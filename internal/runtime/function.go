package runtime

import (
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// FunctionValue is a user-defined sandbox function: a closure over its
// defining environment. Arrow functions additionally capture `this` from
// the surrounding scope at creation time.
type FunctionValue struct {
	Name           string
	Params         []*ast.Param
	Body           *ast.BlockStatement
	ExpressionBody ast.Expression
	Env            *Environment
	IsArrow        bool
	IsAsync        bool
	IsGenerator    bool
	// ThisValue is the captured `this` for arrow functions, or nil.
	ThisValue Value
	// HomeClass links methods to their class for super resolution and
	// private field access checks; nil for plain functions.
	HomeClass *ClassValue
}

func (f *FunctionValue) Type() string { return "function" }

func (f *FunctionValue) String() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	if f.IsArrow {
		return "[arrow function]"
	}
	return "function " + name + "() { [sandbox code] }"
}

// MinArity returns the count of required positional parameters.
func (f *FunctionValue) MinArity() int {
	n := 0
	for _, p := range f.Params {
		if p.Rest || p.Default != nil {
			break
		}
		n++
	}
	return n
}

// FieldInit is one instance-field initializer of a class, run in source
// order on each construction before the constructor body.
type FieldInit struct {
	Name    string
	Private bool
	Init    ast.Expression // nil means the field starts undefined
}

// ClassValue is a sandbox class declaration or expression. Methods close
// over the class's defining environment; the parent link carries
// inheritance without prototype objects.
type ClassValue struct {
	Name        string
	Constructor *FunctionValue
	Methods     map[string]*FunctionValue
	Getters     map[string]*FunctionValue
	Setters     map[string]*FunctionValue
	PrivateMethods map[string]*FunctionValue
	FieldInits  []FieldInit
	// Statics holds static methods and evaluated static fields.
	Statics       *ObjectValue
	StaticGetters map[string]*FunctionValue
	StaticSetters map[string]*FunctionValue
	// PrivateNames is the set of #names declared anywhere in the class
	// body; access to an undeclared private name is a syntax-level error.
	PrivateNames map[string]bool
	Superclass   *ClassValue
	Env          *Environment
}

// NewClass creates an empty class shell with the given name.
func NewClass(name string) *ClassValue {
	return &ClassValue{
		Name:           name,
		Methods:        make(map[string]*FunctionValue),
		Getters:        make(map[string]*FunctionValue),
		Setters:        make(map[string]*FunctionValue),
		PrivateMethods: make(map[string]*FunctionValue),
		Statics:        NewObject(),
		StaticGetters:  make(map[string]*FunctionValue),
		StaticSetters:  make(map[string]*FunctionValue),
		PrivateNames:   make(map[string]bool),
	}
}

func (c *ClassValue) Type() string   { return "function" }
func (c *ClassValue) String() string { return "class " + c.Name + " { [sandbox code] }" }

// LookupMethod resolves a method through the inheritance chain.
func (c *ClassValue) LookupMethod(name string) (*FunctionValue, *ClassValue, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if m, ok := cls.Methods[name]; ok {
			return m, cls, true
		}
	}
	return nil, nil, false
}

// LookupGetter resolves a getter through the inheritance chain.
func (c *ClassValue) LookupGetter(name string) (*FunctionValue, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if g, ok := cls.Getters[name]; ok {
			return g, true
		}
	}
	return nil, false
}

// LookupSetter resolves a setter through the inheritance chain.
func (c *ClassValue) LookupSetter(name string) (*FunctionValue, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if s, ok := cls.Setters[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// HasPrivateName reports whether name is declared in this class or any
// ancestor.
func (c *ClassValue) HasPrivateName(name string) bool {
	for cls := c; cls != nil; cls = cls.Superclass {
		if cls.PrivateNames[name] {
			return true
		}
	}
	return false
}

// Extends reports whether c is other or inherits from it.
func (c *ClassValue) Extends(other *ClassValue) bool {
	for cls := c; cls != nil; cls = cls.Superclass {
		if cls == other {
			return true
		}
	}
	return false
}

// InstanceValue is an object produced by `new` on a sandbox class. Public
// fields live in Fields; private fields live in a separate map reachable
// only through member references inside the owning class's methods.
type InstanceValue struct {
	Class  *ClassValue
	Fields *ObjectValue
	Private map[string]Value
}

// NewInstance creates a blank instance of the class.
func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{
		Class:   class,
		Fields:  NewObject(),
		Private: make(map[string]Value),
	}
}

func (i *InstanceValue) Type() string { return "object" }

func (i *InstanceValue) String() string {
	return i.Class.Name + " " + i.Fields.String()
}

// BoundMethodValue pairs a callable with a receiver, produced when a method
// is read off an object so detached calls keep their `this`.
type BoundMethodValue struct {
	Fn   Value // *FunctionValue or *HostFunctionValue
	This Value
}

func (b *BoundMethodValue) Type() string   { return "function" }
func (b *BoundMethodValue) String() string { return b.Fn.String() }
