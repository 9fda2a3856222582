// Package config holds the linker's iteration caps.
//
// The caps bound the fixpoint loops in the resolver and the lowering ladder.
// They are heuristics, so they are exposed as configuration with conservative
// defaults rather than baked in.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Caps bounds the linker's iterative phases.
type Caps struct {
	// SCCPasses caps full passes over a cyclic strongly connected component
	// before the resolver gives up.
	SCCPasses int `yaml:"scc_passes"`

	// TermRefIterations caps re-scans of a single definition's external term
	// references during substitution (inlining can introduce new references).
	TermRefIterations int `yaml:"term_ref_iterations"`

	// TypeRefIterations caps the analogous loop over type references.
	TypeRefIterations int `yaml:"type_ref_iterations"`

	// LadderSteps caps lowering-ladder applications per definition.
	LadderSteps int `yaml:"ladder_steps"`

	// ReductionSteps caps the SKI/lambda reducer (REPL and tests only; the
	// link path never reduces).
	ReductionSteps int `yaml:"reduction_steps"`
}

// Default returns the conservative default caps.
func Default() Caps {
	return Caps{
		SCCPasses:         100,
		TermRefIterations: 20,
		TypeRefIterations: 20,
		LadderSteps:       4,
		ReductionSteps:    100000,
	}
}

// Load reads caps from a YAML file. Missing or zero fields fall back to the
// defaults, so a partial file only overrides what it names.
func Load(path string) (Caps, error) {
	caps := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return caps, fmt.Errorf("failed to read config: %w", err)
	}
	var loaded Caps
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return caps, fmt.Errorf("invalid config %s: %w", path, err)
	}
	caps.merge(loaded)
	return caps, nil
}

func (c *Caps) merge(o Caps) {
	if o.SCCPasses > 0 {
		c.SCCPasses = o.SCCPasses
	}
	if o.TermRefIterations > 0 {
		c.TermRefIterations = o.TermRefIterations
	}
	if o.TypeRefIterations > 0 {
		c.TypeRefIterations = o.TypeRefIterations
	}
	if o.LadderSteps > 0 {
		c.LadderSteps = o.LadderSteps
	}
	if o.ReductionSteps > 0 {
		c.ReductionSteps = o.ReductionSteps
	}
}
