package symbols

import (
	"resolve/internal/mathtypes"
	"resolve/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid  SymbolKind = iota
	SymbolMath                // math function or constant
	SymbolMathType            // math type definition, denotes a classification
	SymbolProgType            // program type with a math model
	SymbolGeneric             // module generic parameter
	SymbolOperation
	SymbolProgVar
	SymbolFacility
	SymbolTheorem
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolMath:
		return "math"
	case SymbolMathType:
		return "math type"
	case SymbolProgType:
		return "type"
	case SymbolGeneric:
		return "generic"
	case SymbolOperation:
		return "operation"
	case SymbolProgVar:
		return "variable"
	case SymbolFacility:
		return "facility"
	case SymbolTheorem:
		return "theorem"
	default:
		return "invalid"
	}
}

// KindMask restricts lookup to specific symbol kinds.
type KindMask uint32

const (
	// KindMaskNone filters out all kinds.
	KindMaskNone KindMask = 0
	// KindMaskAny allows all kinds.
	KindMaskAny KindMask = ^KindMask(0)
)

// Mask converts a symbol kind into a KindMask bit.
func (k SymbolKind) Mask() KindMask {
	return KindMask(1 << uint(k))
}

func matchKind(mask KindMask, kind SymbolKind) bool {
	return mask == KindMaskAny || mask&kind.Mask() != 0
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	SymbolFlagSchematic
	SymbolFlagInstantiated
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&SymbolFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	if f&SymbolFlagSchematic != 0 {
		labels = append(labels, "schematic")
	}
	if f&SymbolFlagInstantiated != 0 {
		labels = append(labels, "instantiated")
	}
	return labels
}

// ProgType is the program-level type of a variable or parameter. Only the
// pieces the math layer consumes are kept: the name, whether it is a
// generic placeholder, and its math model.
type ProgType struct {
	Name    source.StringID
	Generic bool
	Model   mathtypes.ClsID
}

// IsZero reports whether t is unset.
func (t ProgType) IsZero() bool { return t == ProgType{} }

// Param is one formal parameter of an operation.
type Param struct {
	Name source.StringID
	Type ProgType
	Span source.Span
}

// Facility is the payload of a facility symbol: the specification it
// instantiates and any enhancements layered on it.
type Facility struct {
	Spec         ModuleParameterization
	Enhancements []ModuleParameterization
}

func (f *Facility) ownedBy(owner SymbolID) *Facility {
	out := &Facility{Spec: f.Spec, Enhancements: make([]ModuleParameterization, len(f.Enhancements))}
	out.Spec.Facility = owner
	for i, e := range f.Enhancements {
		e.Facility = owner
		out.Enhancements[i] = e
	}
	return out
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	ID     SymbolID
	Name   source.StringID
	Kind   SymbolKind
	Module ModuleID
	Scope  ScopeID
	Span   source.Span
	Flags  SymbolFlags

	// Cls classifies the symbol. For math types TypeValue is the
	// classification the symbol denotes.
	Cls       mathtypes.ClsID
	TypeValue mathtypes.ClsID

	Type     ProgType
	Params   []Param
	Facility *Facility

	// Instantiator is the facility whose generic arguments produced this
	// copy, NoSymbolID for declared symbols.
	Instantiator SymbolID
}

// InstantiateGenerics returns a copy of s with generic program types
// replaced by the actuals in inst and their math models substituted into
// every classification.
func (s Symbol) InstantiateGenerics(inst GenericInstantiations, facility SymbolID, t *Table) Symbol {
	if len(inst) == 0 {
		return s
	}
	models := inst.bindings(t.Strings)
	out := s
	out.Instantiator = facility
	out.Flags |= SymbolFlagInstantiated
	out.Cls = t.Graph.Substitute(s.Cls, models)
	out.TypeValue = t.Graph.Substitute(s.TypeValue, models)
	out.Type = inst.substitute(s.Type, t)
	if s.Kind == SymbolGeneric {
		if actual, ok := inst[s.Name]; ok {
			out.Type = actual
			out.TypeValue = actual.Model
		}
	}
	if len(s.Params) > 0 {
		out.Params = make([]Param, len(s.Params))
		for i, p := range s.Params {
			p.Type = inst.substitute(p.Type, t)
			out.Params[i] = p
		}
	}
	return out
}
