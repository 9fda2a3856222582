// Package object implements the .tripc object format: a deterministic,
// key-ordered JSON encoding of a compiled module's definitions, exports and
// imports. Round-trips are exact.
package object

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/triplang/tripc/internal/ast"
)

// Object is a compiled module: the in-memory form of one .tripc file.
type Object struct {
	// Module is the module name. Objects written by the compiler carry it;
	// for objects that omit it, ReadFile falls back to the file name stem.
	Module string

	// Definitions maps local names to their definitions.
	Definitions map[string]ast.Definition

	// Exports is the set of explicitly exported local names.
	Exports []string

	// Imports is the ordered list of import declarations.
	Imports []ast.ImportDecl
}

// Serialise encodes an object as key-ordered JSON text. Encoding the same
// object twice yields byte-identical output.
func Serialise(o *Object) ([]byte, error) {
	defs := make(map[string]any, len(o.Definitions))
	for name, def := range o.Definitions {
		enc, err := encodeDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("definition %s: %w", name, err)
		}
		defs[name] = enc
	}

	exports := append([]string(nil), o.Exports...)
	sort.Strings(exports)

	imports := make([]any, len(o.Imports))
	for i, imp := range o.Imports {
		m := map[string]any{"from": imp.From, "name": imp.Name}
		if imp.As != "" {
			m["as"] = imp.As
		}
		imports[i] = m
	}

	doc := map[string]any{
		"module":      o.Module,
		"definitions": defs,
		"exports":     exports,
		"imports":     imports,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Deserialise reconstructs an object from its serialised form.
func Deserialise(data []byte) (*Object, error) {
	var doc struct {
		Module      string                     `json:"module"`
		Definitions map[string]json.RawMessage `json:"definitions"`
		Exports     []string                   `json:"exports"`
		Imports     []struct {
			From string `json:"from"`
			Name string `json:"name"`
			As   string `json:"as"`
		} `json:"imports"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed object: %w", err)
	}

	o := &Object{
		Module:      doc.Module,
		Definitions: make(map[string]ast.Definition, len(doc.Definitions)),
		Exports:     doc.Exports,
	}
	for name, raw := range doc.Definitions {
		var node map[string]any
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("definition %s: %w", name, err)
		}
		def, err := decodeDefinition(name, node)
		if err != nil {
			return nil, fmt.Errorf("definition %s: %w", name, err)
		}
		o.Definitions[name] = def
	}
	for _, imp := range doc.Imports {
		o.Imports = append(o.Imports, ast.ImportDecl{From: imp.From, Name: imp.Name, As: imp.As})
	}
	return o, nil
}

// ReadFile loads and deserialises a .tripc file. Objects without a module
// name take it from the file name stem.
func ReadFile(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read object file: %w", err)
	}
	o, err := Deserialise(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if o.Module == "" {
		o.Module = strings.TrimSuffix(filepath.Base(path), ".tripc")
	}
	return o, nil
}

// WriteFile serialises an object to path.
func WriteFile(path string, o *Object) error {
	data, err := Serialise(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
