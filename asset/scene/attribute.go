package scene

import "fmt"

// The scene element an attribute is attached to.
type AttrClass uint8

const (
	GlobalAttr AttrClass = iota
	PointAttr
	PrimAttr
)

func (c AttrClass) String() string {
	switch c {
	case GlobalAttr:
		return "global"
	case PointAttr:
		return "point"
	case PrimAttr:
		return "prim"
	}
	return fmt.Sprintf("AttrClass(%d)", c)
}

// Parse an attribute class name.
func ParseAttrClass(name string) (AttrClass, error) {
	switch name {
	case "global", "detail":
		return GlobalAttr, nil
	case "point":
		return PointAttr, nil
	case "prim", "primitive":
		return PrimAttr, nil
	}
	return 0, fmt.Errorf("unknown attribute class %q", name)
}

// The data type of an attribute. The numeric values are part of the
// generic mesh file format.
type AttrKind int16

const (
	IntKind AttrKind = iota
	FloatKind
	StringKind
)

func (k AttrKind) String() string {
	switch k {
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	}
	return fmt.Sprintf("AttrKind(%d)", k)
}

// Parse an attribute kind name.
func ParseAttrKind(name string) (AttrKind, error) {
	switch name {
	case "int":
		return IntKind, nil
	case "float":
		return FloatKind, nil
	case "string":
		return StringKind, nil
	}
	return 0, fmt.Errorf("unknown attribute kind %q", name)
}

// Value is the value of an attribute for one scene element. The set of
// implementations is closed: IntValue, FloatValue and StringValue.
type Value interface {
	Kind() AttrKind
	isValue()
}

// A tuple of integers.
type IntValue []int32

// A tuple of floats.
type FloatValue []float32

// A single string.
type StringValue string

func (IntValue) Kind() AttrKind    { return IntKind }
func (FloatValue) Kind() AttrKind  { return FloatKind }
func (StringValue) Kind() AttrKind { return StringKind }

func (IntValue) isValue()    {}
func (FloatValue) isValue()  {}
func (StringValue) isValue() {}

// An attribute definition together with one value per element of its class.
type Attribute struct {
	Name  string
	Class AttrClass
	Kind  AttrKind

	// Number of components for int and float attributes; always 1 for strings.
	Size int

	Values []Value
}

// Create a new attribute with count zero-initialized values.
func NewAttribute(name string, class AttrClass, kind AttrKind, size, count int) *Attribute {
	if kind == StringKind {
		size = 1
	}

	attr := &Attribute{
		Name:   name,
		Class:  class,
		Kind:   kind,
		Size:   size,
		Values: make([]Value, 0, count),
	}
	for i := 0; i < count; i++ {
		attr.Grow()
	}
	return attr
}

// Append a zero value for a newly added element.
func (a *Attribute) Grow() {
	a.Values = append(a.Values, a.zero())
}

func (a *Attribute) zero() Value {
	switch a.Kind {
	case IntKind:
		return make(IntValue, a.Size)
	case FloatKind:
		return make(FloatValue, a.Size)
	default:
		return StringValue("")
	}
}

// Set the value for element index. The value kind must match the attribute
// kind and tuples must have exactly Size components.
func (a *Attribute) Set(index int, v Value) error {
	if index < 0 || index >= len(a.Values) {
		return fmt.Errorf("%s attribute %q: index %d out of range [0, %d)", a.Class, a.Name, index, len(a.Values))
	}
	if v.Kind() != a.Kind {
		return fmt.Errorf("%s attribute %q: expected %s value; got %s", a.Class, a.Name, a.Kind, v.Kind())
	}

	switch val := v.(type) {
	case IntValue:
		if len(val) != a.Size {
			return fmt.Errorf("%s attribute %q: expected %d components; got %d", a.Class, a.Name, a.Size, len(val))
		}
	case FloatValue:
		if len(val) != a.Size {
			return fmt.Errorf("%s attribute %q: expected %d components; got %d", a.Class, a.Name, a.Size, len(val))
		}
	case StringValue:
	}

	a.Values[index] = v
	return nil
}

// Get the float components for element index. Returns nil if this is not a
// float attribute.
func (a *Attribute) Floats(index int) []float32 {
	if v, ok := a.Values[index].(FloatValue); ok {
		return v
	}
	return nil
}
