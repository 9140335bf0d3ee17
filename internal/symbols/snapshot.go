package symbols

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// Snapshot is a serialisable view of the finished modules of a table.
type Snapshot struct {
	Schema  uint16
	Modules []ModuleSnapshot
}

// ModuleSnapshot lists one module's imports and top-level symbols.
type ModuleSnapshot struct {
	Name            string
	Imports         []string
	FacilityImports []string
	Inherited       []string
	Aliases         map[string]string
	Symbols         []SymbolSnapshot
}

// SymbolSnapshot is the rendered form of one symbol.
type SymbolSnapshot struct {
	Name      string
	Kind      string
	Cls       string `msgpack:",omitempty"`
	TypeValue string `msgpack:",omitempty"`
	Type      string `msgpack:",omitempty"`
	Flags     []string
}

// Snapshot renders every registered module in registration order.
func (t *Table) Snapshot() Snapshot {
	out := Snapshot{Schema: snapshotSchemaVersion}
	for _, id := range t.order {
		mod, err := t.ModuleScope(id)
		if err != nil {
			continue
		}
		ms := ModuleSnapshot{
			Name:            string(id),
			Imports:         moduleNames(mod.Imports()),
			FacilityImports: moduleNames(mod.FacilityImports()),
			Inherited:       moduleNames(mod.Inherited()),
			Aliases:         make(map[string]string, len(mod.imports().Aliases)),
		}
		for alias, target := range mod.imports().Aliases {
			ms.Aliases[t.Name(alias)] = string(target)
		}
		for _, sym := range mod.Symbols() {
			ms.Symbols = append(ms.Symbols, t.DescribeSymbol(sym))
		}
		out.Modules = append(out.Modules, ms)
	}
	return out
}

// DescribeSymbol renders sym with names and classifications spelled out.
func (t *Table) DescribeSymbol(sym Symbol) SymbolSnapshot {
	ss := SymbolSnapshot{
		Name:  t.Name(sym.Name),
		Kind:  sym.Kind.String(),
		Flags: sym.Flags.Strings(),
	}
	if sym.Cls.IsValid() {
		ss.Cls = t.Graph.String(sym.Cls)
	}
	if sym.TypeValue.IsValid() {
		ss.TypeValue = t.Graph.String(sym.TypeValue)
	}
	if !sym.Type.IsZero() {
		ss.Type = t.Name(sym.Type.Name)
	}
	return ss
}

func moduleNames(ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// WriteSnapshot encodes s as msgpack.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	return msgpack.NewEncoder(w).Encode(&s)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, err
	}
	if s.Schema != snapshotSchemaVersion {
		return Snapshot{}, fmt.Errorf("snapshot schema %d, want %d", s.Schema, snapshotSchemaVersion)
	}
	return s, nil
}
