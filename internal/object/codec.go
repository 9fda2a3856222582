package object

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
)

// Node encoders. Every node carries a "kind" discriminator; decoding
// dispatches on it and on the definition level, so the same "abs"/"app" tags
// can serve all term levels without ambiguity.

func encodeDefinition(d ast.Definition) (map[string]any, error) {
	switch d := d.(type) {
	case *ast.PolyDef:
		m := map[string]any{"kind": ast.KindPoly, "term": encodePoly(d.Term)}
		if d.Type != nil {
			m["type"] = encodeType(d.Type)
		}
		if d.Rec {
			m["rec"] = true
		}
		return m, nil
	case *ast.TypedDef:
		m := map[string]any{"kind": ast.KindTyped, "term": encodeTyped(d.Term)}
		if d.Type != nil {
			m["type"] = encodeType(d.Type)
		}
		return m, nil
	case *ast.UntypedDef:
		return map[string]any{"kind": ast.KindUntyped, "term": encodeUntyped(d.Term)}, nil
	case *ast.CombinatorDef:
		return map[string]any{"kind": ast.KindCombinator, "term": encodeSKI(d.Term)}, nil
	case *ast.TypeDef:
		return map[string]any{"kind": ast.KindType, "type": encodeType(d.Type)}, nil
	case *ast.DataDef:
		ctors := make([]any, len(d.Constructors))
		for i, c := range d.Constructors {
			fields := make([]any, len(c.Fields))
			for j, f := range c.Fields {
				fields[j] = encodeType(f)
			}
			ctors[i] = map[string]any{"name": c.Name, "fields": fields}
		}
		return map[string]any{
			"kind":         ast.KindData,
			"typeParams":   d.TypeParams,
			"constructors": ctors,
		}, nil
	default:
		return nil, fmt.Errorf("kind %s cannot appear in an object", d.Kind())
	}
}

func encodeType(t ast.BaseType) map[string]any {
	switch t := t.(type) {
	case *ast.TypeVar:
		return map[string]any{"kind": "typevar", "name": t.Name}
	case *ast.Arrow:
		return map[string]any{"kind": "arrow", "lft": encodeType(t.Lft), "rgt": encodeType(t.Rgt)}
	case *ast.TypeApp:
		return map[string]any{"kind": "typeapp", "fn": encodeType(t.Fn), "arg": encodeType(t.Arg)}
	case *ast.Forall:
		return map[string]any{"kind": "forall", "var": t.Var, "body": encodeType(t.Body)}
	default:
		panic(fmt.Sprintf("object: unknown type node %T", t))
	}
}

func encodePoly(t ast.PolyTerm) map[string]any {
	switch t := t.(type) {
	case *ast.PolyVar:
		return map[string]any{"kind": "var", "name": t.Name}
	case *ast.PolyAbs:
		return map[string]any{"kind": "abs", "param": t.Param, "ann": encodeType(t.Ann), "body": encodePoly(t.Body)}
	case *ast.TyAbs:
		return map[string]any{"kind": "tyabs", "var": t.Var, "body": encodePoly(t.Body)}
	case *ast.TyApp:
		return map[string]any{"kind": "tyapp", "term": encodePoly(t.Term), "arg": encodeType(t.Arg)}
	case *ast.PolyApp:
		return map[string]any{"kind": "app", "fn": encodePoly(t.Fn), "arg": encodePoly(t.Arg)}
	default:
		panic(fmt.Sprintf("object: unknown poly node %T", t))
	}
}

func encodeTyped(t ast.TypedTerm) map[string]any {
	switch t := t.(type) {
	case *ast.TypedVar:
		return map[string]any{"kind": "var", "name": t.Name}
	case *ast.TypedAbs:
		return map[string]any{"kind": "abs", "param": t.Param, "ann": encodeType(t.Ann), "body": encodeTyped(t.Body)}
	case *ast.TypedApp:
		return map[string]any{"kind": "app", "fn": encodeTyped(t.Fn), "arg": encodeTyped(t.Arg)}
	default:
		panic(fmt.Sprintf("object: unknown typed node %T", t))
	}
}

func encodeUntyped(t ast.UntypedTerm) map[string]any {
	switch t := t.(type) {
	case *ast.Var:
		return map[string]any{"kind": "var", "name": t.Name}
	case *ast.Lam:
		return map[string]any{"kind": "abs", "param": t.Param, "body": encodeUntyped(t.Body)}
	case *ast.App:
		return map[string]any{"kind": "app", "fn": encodeUntyped(t.Fn), "arg": encodeUntyped(t.Arg)}
	default:
		panic(fmt.Sprintf("object: unknown untyped node %T", t))
	}
}

func encodeSKI(t ast.SKITerm) map[string]any {
	switch t := t.(type) {
	case *ast.Terminal:
		return map[string]any{"kind": "terminal", "sym": t.Sym}
	case *ast.SKIApp:
		return map[string]any{"kind": "app", "fn": encodeSKI(t.Fn), "arg": encodeSKI(t.Arg)}
	default:
		panic(fmt.Sprintf("object: unknown ski node %T", t))
	}
}

// Decoders.

func decodeDefinition(name string, m map[string]any) (ast.Definition, error) {
	kind, _ := m["kind"].(string)
	switch kind {
	case ast.KindPoly:
		term, err := decodePoly(m["term"])
		if err != nil {
			return nil, err
		}
		d := &ast.PolyDef{Name: name, Term: term}
		if ty, ok := m["type"]; ok {
			if d.Type, err = decodeType(ty); err != nil {
				return nil, err
			}
		}
		if rec, ok := m["rec"].(bool); ok {
			d.Rec = rec
		}
		return d, nil
	case ast.KindTyped:
		term, err := decodeTyped(m["term"])
		if err != nil {
			return nil, err
		}
		d := &ast.TypedDef{Name: name, Term: term}
		if ty, ok := m["type"]; ok {
			if d.Type, err = decodeType(ty); err != nil {
				return nil, err
			}
		}
		return d, nil
	case ast.KindUntyped:
		term, err := decodeUntyped(m["term"])
		if err != nil {
			return nil, err
		}
		return &ast.UntypedDef{Name: name, Term: term}, nil
	case ast.KindCombinator:
		term, err := decodeSKI(m["term"])
		if err != nil {
			return nil, err
		}
		return &ast.CombinatorDef{Name: name, Term: term}, nil
	case ast.KindType:
		ty, err := decodeType(m["type"])
		if err != nil {
			return nil, err
		}
		return &ast.TypeDef{Name: name, Type: ty}, nil
	case ast.KindData:
		d := &ast.DataDef{Name: name}
		if params, ok := m["typeParams"].([]any); ok {
			for _, p := range params {
				s, ok := p.(string)
				if !ok {
					return nil, fmt.Errorf("data %s: bad type parameter", name)
				}
				d.TypeParams = append(d.TypeParams, s)
			}
		}
		ctors, ok := m["constructors"].([]any)
		if !ok {
			return nil, fmt.Errorf("data %s: missing constructors", name)
		}
		for _, raw := range ctors {
			cm, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("data %s: bad constructor", name)
			}
			cname, _ := cm["name"].(string)
			ctor := ast.Constructor{Name: cname}
			if fields, ok := cm["fields"].([]any); ok {
				for _, f := range fields {
					ft, err := decodeType(f)
					if err != nil {
						return nil, err
					}
					ctor.Fields = append(ctor.Fields, ft)
				}
			}
			d.Constructors = append(d.Constructors, ctor)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown definition kind %q", kind)
	}
}

func asMap(v any) (map[string]any, string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("expected node object, got %T", v)
	}
	kind, _ := m["kind"].(string)
	return m, kind, nil
}

func decodeType(v any) (ast.BaseType, error) {
	m, kind, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "typevar":
		name, _ := m["name"].(string)
		return &ast.TypeVar{Name: name}, nil
	case "arrow":
		lft, err := decodeType(m["lft"])
		if err != nil {
			return nil, err
		}
		rgt, err := decodeType(m["rgt"])
		if err != nil {
			return nil, err
		}
		return &ast.Arrow{Lft: lft, Rgt: rgt}, nil
	case "typeapp":
		fn, err := decodeType(m["fn"])
		if err != nil {
			return nil, err
		}
		arg, err := decodeType(m["arg"])
		if err != nil {
			return nil, err
		}
		return &ast.TypeApp{Fn: fn, Arg: arg}, nil
	case "forall":
		v, _ := m["var"].(string)
		body, err := decodeType(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Forall{Var: v, Body: body}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", kind)
	}
}

func decodePoly(v any) (ast.PolyTerm, error) {
	m, kind, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "var":
		name, _ := m["name"].(string)
		return &ast.PolyVar{Name: name}, nil
	case "abs":
		param, _ := m["param"].(string)
		ann, err := decodeType(m["ann"])
		if err != nil {
			return nil, err
		}
		body, err := decodePoly(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.PolyAbs{Param: param, Ann: ann, Body: body}, nil
	case "tyabs":
		tv, _ := m["var"].(string)
		body, err := decodePoly(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.TyAbs{Var: tv, Body: body}, nil
	case "tyapp":
		term, err := decodePoly(m["term"])
		if err != nil {
			return nil, err
		}
		arg, err := decodeType(m["arg"])
		if err != nil {
			return nil, err
		}
		return &ast.TyApp{Term: term, Arg: arg}, nil
	case "app":
		fn, err := decodePoly(m["fn"])
		if err != nil {
			return nil, err
		}
		arg, err := decodePoly(m["arg"])
		if err != nil {
			return nil, err
		}
		return &ast.PolyApp{Fn: fn, Arg: arg}, nil
	default:
		return nil, fmt.Errorf("unknown poly term kind %q", kind)
	}
}

func decodeTyped(v any) (ast.TypedTerm, error) {
	m, kind, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "var":
		name, _ := m["name"].(string)
		return &ast.TypedVar{Name: name}, nil
	case "abs":
		param, _ := m["param"].(string)
		ann, err := decodeType(m["ann"])
		if err != nil {
			return nil, err
		}
		body, err := decodeTyped(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.TypedAbs{Param: param, Ann: ann, Body: body}, nil
	case "app":
		fn, err := decodeTyped(m["fn"])
		if err != nil {
			return nil, err
		}
		arg, err := decodeTyped(m["arg"])
		if err != nil {
			return nil, err
		}
		return &ast.TypedApp{Fn: fn, Arg: arg}, nil
	default:
		return nil, fmt.Errorf("unknown typed term kind %q", kind)
	}
}

func decodeUntyped(v any) (ast.UntypedTerm, error) {
	m, kind, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "var":
		name, _ := m["name"].(string)
		return &ast.Var{Name: name}, nil
	case "abs":
		param, _ := m["param"].(string)
		body, err := decodeUntyped(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Lam{Param: param, Body: body}, nil
	case "app":
		fn, err := decodeUntyped(m["fn"])
		if err != nil {
			return nil, err
		}
		arg, err := decodeUntyped(m["arg"])
		if err != nil {
			return nil, err
		}
		return &ast.App{Fn: fn, Arg: arg}, nil
	default:
		return nil, fmt.Errorf("unknown untyped term kind %q", kind)
	}
}

func decodeSKI(v any) (ast.SKITerm, error) {
	m, kind, err := asMap(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "terminal":
		sym, _ := m["sym"].(string)
		switch sym {
		case "S", "K", "I":
			return &ast.Terminal{Sym: sym}, nil
		default:
			return nil, fmt.Errorf("unknown combinator terminal %q", sym)
		}
	case "app":
		fn, err := decodeSKI(m["fn"])
		if err != nil {
			return nil, err
		}
		arg, err := decodeSKI(m["arg"])
		if err != nil {
			return nil, err
		}
		return &ast.SKIApp{Fn: fn, Arg: arg}, nil
	default:
		return nil, fmt.Errorf("unknown combinator term kind %q", kind)
	}
}
