// Package repl implements the interactive evaluation loop: untyped lambda
// terms and raw combinator expressions are read, converted, reduced and
// printed.
package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/config"
	"github.com/triplang/tripc/internal/lexer"
	"github.com/triplang/tripc/internal/lower"
	"github.com/triplang/tripc/internal/parser"
)

// Color functions for pretty output
var (
	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

// REPL is one interactive session.
type REPL struct {
	caps      config.Caps
	showSteps bool
	version   string
}

// New creates a REPL.
func New(caps config.Caps, version string) *REPL {
	return &REPL{caps: caps, version: version}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tripc_history")
}

// Run drives the loop until :quit or EOF.
func (r *REPL) Run() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if path := historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				_, _ = line.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Printf("%s %s — combinator playground\n", bold("tripc"), r.version)
	fmt.Println(dim("enter a lambda term or an SKI expression; :help for commands"))

	for {
		input, err := line.Prompt("λ> ")
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if r.command(input) {
				return
			}
			continue
		}

		r.eval(input)
	}
}

// command handles a colon command; a true result ends the session.
func (r *REPL) command(input string) bool {
	switch input {
	case ":quit", ":q":
		return true
	case ":steps":
		r.showSteps = !r.showSteps
		fmt.Printf("step trace %v\n", r.showSteps)
	case ":help", ":h":
		fmt.Println("  <term>   evaluate an untyped lambda term (λx.x, \\x.x) or SKI expression")
		fmt.Println("  :steps   toggle the reduction step trace")
		fmt.Println("  :quit    exit")
	default:
		fmt.Println(red("unknown command ") + input)
	}
	return false
}

func (r *REPL) eval(input string) {
	sk, err := r.read(input)
	if err != nil {
		fmt.Println(red("error: ") + err.Error())
		return
	}

	if r.showSteps {
		step := sk
		for i := 0; i < r.caps.ReductionSteps; i++ {
			next, changed := lower.StepSKI(step)
			if !changed {
				break
			}
			step = next
			fmt.Println(dim("  → " + step.String()))
		}
	}

	nf, err := lower.ReduceSKI(sk, r.caps.ReductionSteps)
	if err != nil {
		fmt.Println(red("error: ") + err.Error())
		return
	}
	fmt.Println(nf.String())
	if n, ok := lower.DecodeChurch(nf, r.caps.ReductionSteps); ok {
		fmt.Println(dim("  ≈ church numeral ") + cyan(n.String()))
	}
}

// read parses the input as a combinator expression when possible, otherwise
// as an untyped lambda term converted through bracket abstraction.
func (r *REPL) read(input string) (ast.SKITerm, error) {
	skiParser := parser.New(lexer.New(input, "<repl>"))
	if sk, err := skiParser.ParseSKIExpr(); err == nil {
		return sk, nil
	}

	termParser := parser.New(lexer.New(input, "<repl>"))
	term, err := termParser.ParseUntypedExpr()
	if err != nil {
		return nil, err
	}
	return lower.Bracket(term)
}
