// Command sable is the driver for the Sable front end.
//
// Usage:
//
//	sable check [-json] FILE...   report lexical and syntax errors
//	sable tokens FILE             print the token stream
//	sable ast FILE                print the parsed program
//	sable repl                    parse interactively
//
// check exits with status 1 when any diagnostic was reported.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/metaphox/sable/ast"
	"github.com/metaphox/sable/diag"
	"github.com/metaphox/sable/lexer"
	"github.com/metaphox/sable/parser"
)

const appName = "sable"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	switch cmd := args[0]; cmd {
	case "check":
		return cmdCheck(args[1:], stdout, stderr)
	case "tokens":
		return cmdTokens(args[1:], stdout, stderr)
	case "ast":
		return cmdAST(args[1:], stdout, stderr)
	case "repl":
		return cmdRepl(args[1:])
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  %[1]s check [-json] FILE...   Report lexical and syntax errors.
  %[1]s tokens FILE             Print the token stream.
  %[1]s ast FILE                Print the parsed program.
  %[1]s repl                    Start the interactive parser.
`, appName)
}

// result is everything the front end produces for one source unit.
type result struct {
	tokens  []ast.Token
	program *ast.Program
	diags   []diag.Diagnostic // lexical errors first, then syntax errors
}

// analyze registers src with files, then lexes and parses it.
func analyze(files *diag.Files, name string, src []byte) result {
	id := files.Add(name, src)
	tokens, lexErrs := lexer.LexSource(id, src)
	prog, parseErrs := parser.Parse(tokens)

	diags := make([]diag.Diagnostic, 0, len(lexErrs)+len(parseErrs))
	for _, e := range lexErrs {
		diags = append(diags, e)
	}
	for _, e := range parseErrs {
		diags = append(diags, e)
	}
	return result{tokens: tokens, program: prog, diags: diags}
}

// readSource reads one input file.
func readSource(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return src, nil
}

// ── check ─────────────────────────────────────────────────────────────────────

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print diagnostics as JSON records")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stderr, "usage: %s check [-json] FILE...\n", appName)
		return 2
	}

	files := &diag.Files{}
	var all []diag.Diagnostic
	for _, path := range fs.Args() {
		src, err := readSource(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 1
		}
		all = append(all, analyze(files, path, src).diags...)
	}

	if *asJSON {
		if err := diag.WriteJSON(stdout, files, all); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 1
		}
	} else if err := diag.RenderAll(stderr, files, all); err != nil {
		return 1
	}

	if len(all) > 0 {
		return 1
	}
	return 0
}

// ── tokens ────────────────────────────────────────────────────────────────────

func cmdTokens(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: %s tokens FILE\n", appName)
		return 2
	}
	src, err := readSource(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}

	files := &diag.Files{}
	res := analyze(files, args[0], src)
	for _, tok := range res.tokens {
		pos := files.Position(tok.Span)
		fmt.Fprintf(stdout, "%d:%d\t%s\t%q\n", pos.Line, pos.Column, tok.Type, tok.Literal)
	}
	return 0
}

// ── ast ───────────────────────────────────────────────────────────────────────

func cmdAST(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "usage: %s ast FILE\n", appName)
		return 2
	}
	src, err := readSource(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}

	files := &diag.Files{}
	res := analyze(files, args[0], src)
	if _, err := io.WriteString(stdout, res.program.String()); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}

	if len(res.diags) > 0 {
		_ = diag.RenderAll(stderr, files, res.diags)
		return 1
	}
	return 0
}
