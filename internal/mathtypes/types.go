package mathtypes

import "fmt"

// ClsID identifies an interned classification.
type ClsID uint32

// NoClsID marks the absence of a classification.
const NoClsID ClsID = 0

// IsValid reports whether id refers to an interned classification.
func (id ClsID) IsValid() bool { return id != NoClsID }

// Kind selects the variant of a classification node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNamed
	KindFunction
	KindCartesian
	KindFuncApp
	KindPowerset
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNamed:
		return "named"
	case KindFunction:
		return "function"
	case KindCartesian:
		return "cartesian"
	case KindFuncApp:
		return "application"
	case KindPowerset:
		return "powerset"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsApplication reports whether k is a function application. Powerset
// applications are applications of the built-in powerset function.
func (k Kind) IsApplication() bool {
	return k == KindFuncApp || k == KindPowerset
}

// Cls is the compact descriptor of a classification node.
//
// Enclosing is the immediate supertype in the lattice (Z's is SSet, SSet's
// is Cls). RefDepth counts type-of-type levels: 0 for things that only
// classify values indirectly, higher for classes of sets. Schematic marks a
// placeholder that deschematization may bind.
type Cls struct {
	Kind      Kind
	Enclosing ClsID
	RefDepth  uint32
	Schematic bool
	Tag       string // named: the name; applications: the function name
	Payload   uint32 // slot in the function, cartesian or application table
}

// Element is one tagged component of a cartesian product. Tags name
// function parameters; they take no part in alpha-equivalence.
type Element struct {
	Tag string
	Cls ClsID
}

// FnInfo stores the domain and result of a function classification.
type FnInfo struct {
	Domain ClsID
	Result ClsID
}

// CartesianInfo stores the ordered elements of a product.
type CartesianInfo struct {
	Elements []Element
}

// AppInfo stores the function and arguments of an application.
type AppInfo struct {
	Function ClsID
	Args     []ClsID
}

// Bindings maps schematic tags to the classifications bound to them.
type Bindings map[string]ClsID
