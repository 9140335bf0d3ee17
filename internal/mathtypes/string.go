package mathtypes

import (
	"strings"
)

// String renders id for diagnostics: Z, (Z × Z → B), ℘(Z), f(x, y).
func (g *Graph) String(id ClsID) string {
	var sb strings.Builder
	g.write(&sb, id, false)
	return sb.String()
}

func (g *Graph) write(sb *strings.Builder, id ClsID, nested bool) {
	c, ok := g.Lookup(id)
	if !ok {
		sb.WriteString("?")
		return
	}
	switch c.Kind {
	case KindInvalid:
		sb.WriteString("Invalid")
	case KindNamed:
		sb.WriteString(c.Tag)
	case KindFunction:
		info := g.fns[c.Payload]
		if nested {
			sb.WriteByte('(')
		}
		g.write(sb, info.Domain, true)
		sb.WriteString(" → ")
		g.write(sb, info.Result, true)
		if nested {
			sb.WriteByte(')')
		}
	case KindCartesian:
		if nested {
			sb.WriteByte('(')
		}
		for i, e := range g.carts[c.Payload].Elements {
			if i > 0 {
				sb.WriteString(" × ")
			}
			if e.Tag != "" {
				sb.WriteString(e.Tag)
				sb.WriteString(" : ")
			}
			g.write(sb, e.Cls, true)
		}
		if nested {
			sb.WriteByte(')')
		}
	case KindPowerset:
		sb.WriteString("℘(")
		g.write(sb, g.apps[c.Payload].Args[0], false)
		sb.WriteByte(')')
	case KindFuncApp:
		sb.WriteString(c.Tag)
		sb.WriteByte('(')
		for i, arg := range g.apps[c.Payload].Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			g.write(sb, arg, false)
		}
		sb.WriteByte(')')
	}
}
