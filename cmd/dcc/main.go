/*
Dcc ("demo C compiler") compiles a single C99-subset translation unit to
WebAssembly text format.

Usage:

	dcc [flags] FILE

The flags are:

	-v, --version
		Give the current version of ictioglot and then exit.

	-o, --output FILE
		Write the compiled .wat module to FILE instead of stdout.

	-c, --config FILE
		Load compiler options from a TOML configuration file. Command-line
		flags override any option also present in the config file.

Dcc lexes, parses, and lowers FILE to a .wat module; the type checker is
consulted only for identifiers that are not params or locals, and its
diagnostics are not reported. The
typedef/identifier ambiguity in C's grammar is resolved by a first lexer
pass that scans for "typedef ... NAME ;" declarations before the real
lex+parse pass runs, so by the time parsing begins every typedef name in
scope is already a distinct token class from a plain identifier (see
c99/token and c99/grammar's package docs for why this sidesteps the need
for a parser-level decision on that particular ambiguity).
*/
package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/dekarrin/ictioglot/c99/ast"
	"github.com/dekarrin/ictioglot/c99/grammar"
	"github.com/dekarrin/ictioglot/c99/token"
	"github.com/dekarrin/ictioglot/c99/types"
	"github.com/dekarrin/ictioglot/c99/wasm"
	"github.com/dekarrin/ictioglot/internal/version"
	"github.com/dekarrin/ictioglot/parse"
)

const (
	ExitSuccess = iota
	ExitCompileError
	ExitInitError
)

// Config holds options loadable from a TOML file, mirroring the flags
// below so either source can supply them.
type Config struct {
	Output string `toml:"output"`
}

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagOutput  = pflag.StringP("output", "o", "", "Write the compiled module to this file instead of stdout")
	flagConfig  = pflag.StringP("config", "c", "", "Load compiler options from a TOML configuration file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := Config{Output: *flagOutput}
	if *flagConfig != "" {
		if _, err := toml.DecodeFile(*flagConfig, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading config: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		if *flagOutput != "" {
			cfg.Output = *flagOutput
		}
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ERROR: exactly one source FILE is required")
		returnCode = ExitInitError
		return
	}
	path := pflag.Arg(0)

	watText, err := compile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}

	if cfg.Output == "" {
		fmt.Print(watText)
		return
	}
	if err := os.WriteFile(cfg.Output, []byte(watText), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing output: %s\n", err.Error())
		returnCode = ExitCompileError
		return
	}
}

// scanTypedefNames does a first lightweight pass over src, returning the
// set of names declared via "typedef ... NAME ;" so the real lex pass can
// classify them as TypedefName tokens rather than plain identifiers.
func scanTypedefNames(src string) (map[string]bool, error) {
	lexer, err := token.NewLexer("<typedef-scan>", nil)
	if err != nil {
		return nil, err
	}
	toks, err := token.LexAll(lexer, src)
	if err != nil {
		return nil, err
	}

	names := map[string]bool{}
	inTypedef := false
	var lastID string
	for _, tok := range toks {
		switch tok.Class().ID() {
		case "typedef":
			inTypedef = true
			lastID = ""
		case token.Identifier:
			if inTypedef {
				lastID = tok.Lexeme()
			}
		case token.Semicolon:
			if inTypedef && lastID != "" {
				names[lastID] = true
			}
			inTypedef = false
		}
	}
	return names, nil
}

func compile(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	typedefs, err := scanTypedefNames(string(src))
	if err != nil {
		return "", err
	}
	lexer, err := token.NewLexer(path, func(name string) bool { return typedefs[name] })
	if err != nil {
		return "", err
	}
	toks, err := token.LexAll(lexer, string(src))
	if err != nil {
		return "", err
	}

	builder := grammar.NewBuilder()
	g, err := grammar.NewGrammar(builder)
	if err != nil {
		return "", err
	}
	table, _, err := parse.GenerateSLRTable(*g)
	if err != nil {
		return "", err
	}

	driver := parse.New(table, *g, parse.NewParserContext(nil))
	for _, tok := range toks {
		if err := driver.Feed(tok); err != nil {
			return "", err
		}
	}
	result, err := driver.End()
	if err != nil {
		return "", err
	}
	unitID := result.(ast.NodeID)
	unit := builder.Arena.Get(unitID).(ast.TranslationUnit)

	checker := types.NewChecker(builder.Arena)
	emitter := wasm.NewEmitter(builder.Arena, checker)
	mod, err := emitter.EmitTranslationUnit(unit)
	if err != nil {
		return "", err
	}
	return mod.String(), nil
}
