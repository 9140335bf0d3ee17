package project

import "strings"

// ModuleDecl is the declarative form of one module, decoded from TOML or
// YAML. Declarations are analysed in the order the sections appear here.
type ModuleDecl struct {
	Module          string            `toml:"module" yaml:"module"`
	Imports         []string          `toml:"imports" yaml:"imports"`
	FacilityImports []string          `toml:"facility_imports" yaml:"facility_imports"`
	Extends         []string          `toml:"extends" yaml:"extends"`
	Aliases         map[string]string `toml:"aliases" yaml:"aliases"`
	Generics        []string          `toml:"generics" yaml:"generics"`
	Math            []MathDecl        `toml:"math" yaml:"math"`
	TypeTheorems    []TypeTheoremDecl `toml:"type_theorem" yaml:"type_theorem"`
	Types           []TypeDecl        `toml:"type" yaml:"type"`
	Facilities      []FacilityDecl    `toml:"facility" yaml:"facility"`
	Vars            []VarDecl         `toml:"var" yaml:"var"`
	Operations      []OperationDecl   `toml:"operation" yaml:"operation"`
}

// MathDecl introduces a math symbol. Exactly one of Denotes, Cls and Apply
// is set: a new math type, a symbol with an explicit classification, or a
// symbol classified by the result of an (overloaded) application.
type MathDecl struct {
	Name    string     `toml:"name" yaml:"name"`
	Denotes *TypeIntro `toml:"denotes" yaml:"denotes"`
	Cls     *ClsExpr   `toml:"cls" yaml:"cls"`
	Apply   *ApplyExpr `toml:"apply" yaml:"apply"`
}

// TypeIntro declares a new named classification inside Of.
type TypeIntro struct {
	Of ClsExpr `toml:"of" yaml:"of"`
}

// TypeTheoremDecl records Sub as a subtype of Sup.
type TypeTheoremDecl struct {
	Name string  `toml:"name" yaml:"name"`
	Sub  ClsExpr `toml:"sub" yaml:"sub"`
	Sup  ClsExpr `toml:"sup" yaml:"sup"`
}

// TypeDecl declares a program type modelled by a classification.
type TypeDecl struct {
	Name  string  `toml:"name" yaml:"name"`
	Model ClsExpr `toml:"model" yaml:"model"`
}

// VarDecl declares a variable or parameter of a program type. Type may be
// qualified as "Q::Name".
type VarDecl struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
}

// OperationDecl declares an operation; parameters and locals live in a
// nested scope.
type OperationDecl struct {
	Name   string    `toml:"name" yaml:"name"`
	Params []VarDecl `toml:"params" yaml:"params"`
	Locals []VarDecl `toml:"locals" yaml:"locals"`
}

// FacilityDecl instantiates a generic module.
type FacilityDecl struct {
	Name         string            `toml:"name" yaml:"name"`
	Module       string            `toml:"module" yaml:"module"`
	Args         []string          `toml:"args" yaml:"args"`
	Enhancements []EnhancementDecl `toml:"enhancements" yaml:"enhancements"`
}

// EnhancementDecl layers another module on a facility.
type EnhancementDecl struct {
	Module string   `toml:"module" yaml:"module"`
	Args   []string `toml:"args" yaml:"args"`
}

// ClsExpr is a classification expression. The populated fields select the
// form:
//
//	{name, qualifier}    reference to a math type
//	{var, of}            schematic variable bounded by of
//	{params, result}     function
//	{product}            cartesian product
//	{powerset}           powerset
//	{apply}              function application
type ClsExpr struct {
	Name      string     `toml:"name" yaml:"name"`
	Qualifier string     `toml:"qualifier" yaml:"qualifier"`
	Var       string     `toml:"var" yaml:"var"`
	Of        *ClsExpr   `toml:"of" yaml:"of"`
	Params    []ParamCls `toml:"params" yaml:"params"`
	Result    *ClsExpr   `toml:"result" yaml:"result"`
	Product   []ParamCls `toml:"product" yaml:"product"`
	Powerset  *ClsExpr   `toml:"powerset" yaml:"powerset"`
	Apply     *ApplyExpr `toml:"apply" yaml:"apply"`
}

// ClsShape names the form of a ClsExpr.
type ClsShape uint8

const (
	ShapeUnknown ClsShape = iota
	ShapeName
	ShapeVar
	ShapeFunction
	ShapeProduct
	ShapePowerset
	ShapeApply
)

// Shape reports which form e takes, ShapeUnknown when zero or several
// forms are populated.
func (e ClsExpr) Shape() ClsShape {
	shape := ShapeUnknown
	count := 0
	set := func(s ClsShape, ok bool) {
		if ok {
			shape = s
			count++
		}
	}
	set(ShapeName, e.Name != "")
	set(ShapeVar, e.Var != "")
	set(ShapeFunction, e.Result != nil)
	set(ShapeProduct, len(e.Product) > 0)
	set(ShapePowerset, e.Powerset != nil)
	set(ShapeApply, e.Apply != nil)
	if count != 1 {
		return ShapeUnknown
	}
	return shape
}

// ParamCls is a tagged component of a function domain or product.
type ParamCls struct {
	Tag string  `toml:"tag" yaml:"tag"`
	Cls ClsExpr `toml:"cls" yaml:"cls"`
}

// ApplyExpr applies a math function, possibly overloaded, to arguments
// described by their classifications.
type ApplyExpr struct {
	Fn        string    `toml:"fn" yaml:"fn"`
	Qualifier string    `toml:"qualifier" yaml:"qualifier"`
	Args      []ClsExpr `toml:"args" yaml:"args"`
}

// SplitQualified splits "Q::Name" into its qualifier and name.
func SplitQualified(ref string) (qualifier, name string) {
	if q, n, ok := strings.Cut(ref, "::"); ok {
		return q, n
	}
	return "", ref
}
