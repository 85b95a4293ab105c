// Command alanc compiles a single Alan source file to LLVM textual IR.
//
// With no flags and no positional argument, alanc reads from stdin and
// writes IR to stdout. Given a file argument it writes name.imm (IR) and
// name.asm (the -f rendering) alongside the source instead.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"

	"github.com/kostiscpp/alan-compiler/internal/codegen"
	"github.com/kostiscpp/alan-compiler/internal/config"
	"github.com/kostiscpp/alan-compiler/internal/parser"
	"github.com/kostiscpp/alan-compiler/internal/report"
	"github.com/kostiscpp/alan-compiler/internal/sem"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli := olive.NewCLI("alanc", "alanc compiles Alan source to LLVM IR", true)
	cli.AddFlag("optimize", "O", "run the default constant-folding pass before emission")
	cli.AddFlag("asm", "f", "emit the assembly-style rendering instead of textual IR")
	cli.AddFlag("ir", "i", "emit textual IR explicitly (the default behavior)")
	cli.AddPrimaryArg("input", "path to the Alan source file; omit to read stdin", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "argument error:", err)
		return 1
	}

	inputPath, hasInput := result.PrimaryArg()
	optimize := result.HasFlag("optimize")
	asm := result.HasFlag("asm")

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}

	filePath := "<stdin>"
	var src []byte
	if hasInput && inputPath != "" {
		filePath = inputPath
		src, err = os.ReadFile(inputPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot read", inputPath, ":", err)
			return 1
		}
	} else {
		src, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot read stdin:", err)
			return 1
		}
	}

	logger := report.NewLogger(filePath, report.ParseLevel(cfg.LogLevel), src)

	p := parser.New(src, logger)
	program := p.ParseProgram()
	if p.Failed() || logger.ErrorCount() > 0 {
		return 1
	}

	analyzer := sem.New(logger)
	if !analyzer.Analyze(program) {
		return 1
	}

	moduleName := filePath
	if hasInput {
		moduleName = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}

	gen := codegen.New(moduleName, logger)
	gen.SetOptimize(optimize)
	mod := gen.Generate(program)

	irText := mod.String()
	asmText := codegen.RenderAssembly(mod)

	if hasInput && inputPath != "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		immPath := base + ".imm"
		asmPath := base + ".asm"
		if err := os.WriteFile(immPath, []byte(irText), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "cannot write", immPath, ":", err)
			return 1
		}
		if err := os.WriteFile(asmPath, []byte(asmText), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "cannot write", asmPath, ":", err)
			return 1
		}
		return 0
	}

	if asm {
		fmt.Print(asmText)
	} else {
		fmt.Print(irText)
	}
	return 0
}
