package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/triplang/tripc/internal/config"
	"github.com/triplang/tripc/internal/link"
	"github.com/triplang/tripc/internal/object"
	"github.com/triplang/tripc/internal/parser"
	"github.com/triplang/tripc/internal/repl"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	// Color output
	red  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

func main() {
	// Keep stdout clean for pipes: the linked expression is the program's
	// output, diagnostics go to stderr.
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	var (
		linkFlag    = flag.Bool("link", false, "Link object files into one SKI expression")
		verboseFlag = flag.Bool("verbose", false, "Print a phase trace during linking")
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		configFlag  = flag.String("config", "", "Path to a tripc.yaml caps file")
	)
	flag.BoolVar(verboseFlag, "V", *verboseFlag, "Print a phase trace during linking")
	flag.BoolVar(versionFlag, "v", *versionFlag, "Print version information")
	flag.BoolVar(helpFlag, "h", *helpFlag, "Show help")
	flag.Usage = printHelp

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || (flag.NArg() == 0 && !*linkFlag) {
		printHelp()
		if !*helpFlag {
			os.Exit(1)
		}
		return
	}

	caps := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fail(err)
		}
		caps = loaded
	}

	if *linkFlag {
		runLink(flag.Args(), caps, *verboseFlag)
		return
	}

	if flag.Arg(0) == "repl" {
		repl.New(caps, Version).Run()
		return
	}

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "%s: expected source and output paths\n", red("Error"))
		fmt.Fprintln(os.Stderr, "Usage: tripc <src.trip> <out.tripc>")
		os.Exit(1)
	}
	runCompile(flag.Arg(0), flag.Arg(1))
}

func runLink(paths []string, caps config.Caps, verbose bool) {
	result, err := link.Files(paths, link.Options{Caps: caps, Verbose: verbose})
	if err != nil {
		fail(err)
	}
	fmt.Println(result.Output())
}

func runCompile(src, out string) {
	if !strings.HasSuffix(src, ".trip") {
		fail(fmt.Errorf("%s: source files must end in .trip", src))
	}
	if !strings.HasSuffix(out, ".tripc") {
		fail(fmt.Errorf("%s: object files must end in .tripc", out))
	}
	data, err := os.ReadFile(src)
	if err != nil {
		fail(err)
	}
	defs, err := parser.ParseSource(string(data), src)
	if err != nil {
		fail(err)
	}
	obj, err := object.Assemble(defs)
	if err != nil {
		fail(err)
	}
	if err := object.WriteFile(out, obj); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
	os.Exit(1)
}

func printVersion() {
	fmt.Printf("%s %s\n", bold("tripc"), Version)
	fmt.Printf("  commit: %s\n", Commit)
	fmt.Printf("  built:  %s\n", BuildTime)
}

func printHelp() {
	fmt.Printf("%s — TripLang compiler and linker\n\n", bold("tripc"))
	fmt.Println("Usage:")
	fmt.Println("  tripc <src.trip> <out.tripc>        Compile a source module to an object")
	fmt.Println("  tripc --link [flags] <a.tripc> ...  Link objects, print the SKI expression")
	fmt.Println("  tripc repl                          Interactive evaluation loop")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --link              Link mode")
	fmt.Println("  --verbose, -V       Phase trace to stderr while linking")
	fmt.Println("  --config <file>     Override iteration caps from a tripc.yaml")
	fmt.Println("  --version, -v       Print version")
	fmt.Println("  --help, -h          This help")
}
