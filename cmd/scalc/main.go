/*
Scalc runs SimpleCalculator programs, either from a file given on the
command line or interactively from a REPL.

Usage:

	scalc [flags] [FILE]

The flags are:

	-v, --version
		Give the current version of ictioglot and then exit.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline, even if launched in a tty.

If FILE is given, its contents are parsed and run once and the result is
printed; otherwise an interactive session starts, printing the result of
each statement as it is entered. Type "quit" to exit the interpreter.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/ictioglot/internal/input"
	"github.com/dekarrin/ictioglot/internal/version"
	"github.com/dekarrin/ictioglot/scalc"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitRunError
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
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

	if pflag.NArg() > 0 {
		runFile(pflag.Arg(0))
		return
	}

	runREPL()
}

func runFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	p, err := scalc.NewParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	unit, err := p.Parse(string(src), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
	result, err := scalc.NewInterp().Run(unit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
	fmt.Printf("%v\n", result)
}

func runREPL() {
	reader, err := input.NewReader(os.Stdin, *forceDirect, "scalc> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	p, err := scalc.NewParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	interp := scalc.NewInterp()

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			return
		}
		if line == "quit" || line == "exit" {
			return
		}

		unit, err := p.Parse(line, "<repl>")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}
		result, err := interp.Run(unit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}
		fmt.Printf("%v\n", result)
	}
}
