package mathtypes

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

type clsKey struct {
	Kind      Kind
	Enclosing ClsID
	RefDepth  uint32
	Schematic bool
	Tag       string
	Sig       string
}

// Interner hands out stable ClsIDs for structurally identical nodes.
type Interner struct {
	nodes   []Cls
	index   map[clsKey]ClsID
	fns     []FnInfo
	carts   []CartesianInfo
	apps    []AppInfo
	invalid ClsID
}

func NewInterner() *Interner {
	in := &Interner{
		nodes: make([]Cls, 1, 64), // index 0 reserved for NoClsID
		index: make(map[clsKey]ClsID, 64),
	}
	in.invalid = in.intern(Cls{Kind: KindInvalid}, "")
	return in
}

// Invalid is the classification substituted after a failed analysis step.
func (in *Interner) Invalid() ClsID { return in.invalid }

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id ClsID) (Cls, bool) {
	if !id.IsValid() || int(id) >= len(in.nodes) {
		return Cls{}, false
	}
	return in.nodes[id], true
}

// MustLookup panics when id is not interned.
func (in *Interner) MustLookup(id ClsID) Cls {
	c, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("mathtypes: invalid ClsID %d", id))
	}
	return c
}

// Len reports the number of interned nodes.
func (in *Interner) Len() int { return len(in.nodes) - 1 }

func (in *Interner) intern(c Cls, sig string) ClsID {
	key := clsKey{
		Kind:      c.Kind,
		Enclosing: c.Enclosing,
		RefDepth:  c.RefDepth,
		Schematic: c.Schematic,
		Tag:       c.Tag,
		Sig:       sig,
	}
	if id, ok := in.index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.nodes))
	if err != nil {
		panic(fmt.Errorf("classification arena overflow: %w", err))
	}
	id := ClsID(n)
	in.nodes = append(in.nodes, c)
	in.index[key] = id
	return id
}

// Named interns a leaf classification.
func (in *Interner) Named(tag string, depth uint32, enclosing ClsID, schematic bool) ClsID {
	return in.intern(Cls{
		Kind:      KindNamed,
		Enclosing: enclosing,
		RefDepth:  depth,
		Schematic: schematic,
		Tag:       tag,
	}, "")
}

func (in *Interner) function(domain, result ClsID, enclosing ClsID) ClsID {
	sig := idSig(domain, result)
	key := clsKey{Kind: KindFunction, Enclosing: enclosing, RefDepth: in.depth(result), Sig: sig}
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.fns, FnInfo{Domain: domain, Result: result})
	return in.intern(Cls{
		Kind:      KindFunction,
		Enclosing: enclosing,
		RefDepth:  key.RefDepth,
		Payload:   slot,
	}, sig)
}

func (in *Interner) cartesian(elems []Element, enclosing ClsID) ClsID {
	var sb strings.Builder
	var depth uint32
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(e.Tag))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(e.Cls), 10))
		depth = max(depth, in.depth(e.Cls))
	}
	sig := sb.String()
	key := clsKey{Kind: KindCartesian, Enclosing: enclosing, RefDepth: depth, Sig: sig}
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.carts, CartesianInfo{Elements: slices.Clone(elems)})
	return in.intern(Cls{
		Kind:      KindCartesian,
		Enclosing: enclosing,
		RefDepth:  depth,
		Payload:   slot,
	}, sig)
}

func (in *Interner) application(kind Kind, fn ClsID, name string, args []ClsID, enclosing ClsID, depth uint32) ClsID {
	sig := idSig(append([]ClsID{fn}, args...)...)
	key := clsKey{Kind: kind, Enclosing: enclosing, RefDepth: depth, Tag: name, Sig: sig}
	if id, ok := in.index[key]; ok {
		return id
	}
	slot := appendSlot(&in.apps, AppInfo{Function: fn, Args: slices.Clone(args)})
	return in.intern(Cls{
		Kind:      kind,
		Enclosing: enclosing,
		RefDepth:  depth,
		Tag:       name,
		Payload:   slot,
	}, sig)
}

// FnInfo returns the domain/result of a function classification.
func (in *Interner) FnInfo(id ClsID) (FnInfo, bool) {
	c, ok := in.Lookup(id)
	if !ok || c.Kind != KindFunction {
		return FnInfo{}, false
	}
	return in.fns[c.Payload], true
}

// CartesianInfo returns the elements of a product classification.
func (in *Interner) CartesianInfo(id ClsID) (CartesianInfo, bool) {
	c, ok := in.Lookup(id)
	if !ok || c.Kind != KindCartesian {
		return CartesianInfo{}, false
	}
	return in.carts[c.Payload], true
}

// AppInfo returns the function and arguments of an application.
func (in *Interner) AppInfo(id ClsID) (AppInfo, bool) {
	c, ok := in.Lookup(id)
	if !ok || !c.Kind.IsApplication() {
		return AppInfo{}, false
	}
	return in.apps[c.Payload], true
}

func (in *Interner) depth(id ClsID) uint32 {
	if c, ok := in.Lookup(id); ok {
		return c.RefDepth
	}
	return 0
}

func idSig(ids ...ClsID) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}

func appendSlot[T any](table *[]T, v T) uint32 {
	slot, err := safecast.Conv[uint32](len(*table))
	if err != nil {
		panic(fmt.Errorf("payload table overflow: %w", err))
	}
	*table = append(*table, v)
	return slot
}
