package symbols

import "resolve/internal/mathtypes"

// PreludeEntry describes a built-in symbol seeded into the global scope.
type PreludeEntry struct {
	Names     []string // first is canonical, the rest are aliases
	Kind      SymbolKind
	Cls       func(mathtypes.Builtins) mathtypes.ClsID
	TypeValue func(mathtypes.Builtins) mathtypes.ClsID
}

func builtinPreludeEntries() []PreludeEntry {
	mathType := func(names []string, cls, value func(mathtypes.Builtins) mathtypes.ClsID) PreludeEntry {
		return PreludeEntry{Names: names, Kind: SymbolMathType, Cls: cls, TypeValue: value}
	}
	math := func(cls func(mathtypes.Builtins) mathtypes.ClsID, names ...string) PreludeEntry {
		return PreludeEntry{Names: names, Kind: SymbolMath, Cls: cls}
	}
	clsOf := func(b mathtypes.Builtins) mathtypes.ClsID { return b.Cls }
	ssetOf := func(b mathtypes.Builtins) mathtypes.ClsID { return b.SSet }
	boolean := func(b mathtypes.Builtins) mathtypes.ClsID { return b.Boolean }
	booleanFn := func(b mathtypes.Builtins) mathtypes.ClsID { return b.BooleanFn }
	return []PreludeEntry{
		mathType([]string{"Cls"}, clsOf, clsOf),
		mathType([]string{"SSet"}, clsOf, ssetOf),
		mathType([]string{"Entity"}, clsOf, func(b mathtypes.Builtins) mathtypes.ClsID { return b.Entity }),
		mathType([]string{"B"}, ssetOf, boolean),
		mathType([]string{"Empty_Set"}, ssetOf, func(b mathtypes.Builtins) mathtypes.ClsID { return b.EmptySet }),
		mathType([]string{"Void"}, ssetOf, func(b mathtypes.Builtins) mathtypes.ClsID { return b.Void }),
		math(boolean, "true"),
		math(boolean, "false"),
		math(booleanFn, "and", "∧"),
		math(booleanFn, "or", "∨"),
		math(booleanFn, "implies", "⟹"),
		math(func(b mathtypes.Builtins) mathtypes.ClsID { return b.NotFn }, "not", "¬"),
		math(func(b mathtypes.Builtins) mathtypes.ClsID { return b.EqualityFn }, "="),
		math(func(b mathtypes.Builtins) mathtypes.ClsID { return b.PowersetFn }, "Powerset", "℘"),
		math(func(b mathtypes.Builtins) mathtypes.ClsID { return b.ArrowFn }, "→"),
		math(func(b mathtypes.Builtins) mathtypes.ClsID { return b.CrossFn }, "×"),
	}
}
