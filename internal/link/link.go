// Package link orchestrates a whole link: load objects, build the program
// space, expand and pre-lower, resolve, locate main, and lower it to a
// single closed combinator expression.
package link

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/config"
	"github.com/triplang/tripc/internal/diag"
	"github.com/triplang/tripc/internal/freevars"
	"github.com/triplang/tripc/internal/lower"
	"github.com/triplang/tripc/internal/object"
	"github.com/triplang/tripc/internal/resolver"
	"github.com/triplang/tripc/internal/space"
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Options configures one link run.
type Options struct {
	Caps    config.Caps
	Verbose bool

	// Trace receives the verbose phase trace; Warn receives warnings. Both
	// default to stderr.
	Trace io.Writer
	Warn  io.Writer
}

func (o *Options) fill() {
	if o.Caps == (config.Caps{}) {
		o.Caps = config.Default()
	}
	if o.Trace == nil {
		o.Trace = os.Stderr
	}
	if o.Warn == nil {
		o.Warn = os.Stderr
	}
}

// Result is a successful link.
type Result struct {
	Main     ast.QualifiedName
	SKI      ast.SKITerm
	Warnings []string
}

// Output renders the linked expression in the object grammar.
func (r *Result) Output() string {
	return r.SKI.String()
}

// Files validates the given paths, loads each object, and links them.
// Every path must exist and carry the .tripc extension.
func Files(paths []string, opts Options) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no object files to link")
	}
	objs := make([]*object.Object, 0, len(paths))
	for _, path := range paths {
		if !strings.HasSuffix(path, ".tripc") {
			return nil, fmt.Errorf("%s: linker inputs must end in .tripc", path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: no such object file", path)
		}
		o, err := object.ReadFile(path)
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return Objects(objs, opts)
}

// Objects links deserialised objects into one closed SKI expression.
func Objects(objs []*object.Object, opts Options) (*Result, error) {
	opts.fill()

	s, err := space.FromObjects(objs)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		fmt.Fprintln(opts.Trace, dim(fmt.Sprintf("loaded %d modules", len(s.ModuleOrder))))
	}

	res := resolver.New(s, opts.Caps)
	if opts.Verbose {
		res.SetTrace(opts.Trace)
	}
	if err := res.Run(); err != nil {
		return nil, err
	}

	mainQ, err := s.FindMain()
	if err != nil {
		return nil, err
	}

	result := &Result{Main: mainQ}
	result.Warnings = openExportWarnings(s)
	for _, w := range result.Warnings {
		fmt.Fprintln(opts.Warn, yellow("warning: ")+w)
	}

	mainDef, ok := s.Terms[mainQ]
	if !ok {
		return nil, diag.Errorf(diag.NoMain, "%s has no term definition", mainQ)
	}
	combinator, err := lower.ToCombinator(mainDef, opts.Caps.LadderSteps)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		fmt.Fprintln(opts.Trace, dim(fmt.Sprintf("lowered %s to combinator form", mainQ)))
	}
	result.SKI = combinator.Term
	return result, nil
}

// openExportWarnings reports exported definitions that still carry external
// references after resolution. Such leftovers signal unsoundness, but they
// do not abort the link.
func openExportWarnings(s *space.Space) []string {
	var warnings []string
	for _, modName := range s.ModuleOrder {
		mod := s.Modules[modName]
		names := mod.Exports.ToSlice()
		sort.Strings(names)
		for _, name := range names {
			def, ok := mod.Defs[name]
			if !ok {
				continue
			}
			if def.Kind() == ast.KindType || def.Kind() == ast.KindData {
				continue
			}
			refs := freevars.Definition(def)
			if refs.Terms.Len() > 0 {
				open := refs.Terms.ToSlice()
				sort.Strings(open)
				warnings = append(warnings, fmt.Sprintf(
					"%s.%s still references %s after resolution",
					modName, name, strings.Join(open, ", ")))
			}
		}
	}
	return warnings
}
