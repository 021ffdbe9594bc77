package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/metaphox/sable/ast"
	"github.com/metaphox/sable/diag"
	"github.com/metaphox/sable/lexer"
	"github.com/metaphox/sable/parser"
)

const (
	historyFile = ".sable_history"
	promptMain  = "sable> "
	promptCont  = "  ...> "
	banner      = "Sable front end. Enter items or statements; :quit to exit."
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{files: &diag.Files{}, color: true}
	for {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		input := strings.TrimSpace(src)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			switch strings.ToLower(input) {
			case ":quit", ":q":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		s.eval(src, os.Stdout, os.Stderr)
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
	return 0
}

// readByParseProbe reads lines until they form input that more text could
// not complete.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !needsMore(src) {
			return src, true
		}
	}
}

// needsMore reports whether src stops in the middle of a string literal or a
// construct, so that reading another line could complete it.
func needsMore(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	tokens, lexErrs := lexer.Lex([]byte(src))
	for _, e := range lexErrs {
		if e.Kind == lexer.UnterminatedString {
			return true
		}
	}
	_, errs := parseInput(tokens)
	return parser.Incomplete(errs)
}

// parseInput parses one REPL entry. Input that starts with an item keyword is
// a program; anything else is a sequence of statements. It returns the
// rendered nodes in source order.
func parseInput(tokens []ast.Token) ([]string, []*parser.ParseError) {
	if len(tokens) == 0 {
		return nil, nil
	}

	switch tokens[0].Type {
	case ast.FN, ast.EXTERN, ast.STRUCT, ast.OPAQUE:
		prog, errs := parser.Parse(tokens)
		return strings.Split(strings.TrimSuffix(prog.String(), "\n"), "\n"), errs
	}

	var out []string
	p := parser.New(tokens)
	for p.Pos() < len(tokens) {
		stmt, ok := p.ParseStatement()
		if !ok {
			break
		}
		out = append(out, stmt.String())
	}
	return out, p.Errors()
}

// session holds the state shared by the entries of one REPL run. Each entry
// becomes its own source unit so diagnostics point into the right text.
type session struct {
	files *diag.Files
	n     int
	color bool
}

// eval parses one entry, printing the nodes to stdout and any diagnostics to
// stderr. It reports whether the entry was free of diagnostics.
func (s *session) eval(src string, stdout, stderr io.Writer) bool {
	s.n++
	id := s.files.Add(fmt.Sprintf("<repl:%d>", s.n), []byte(src))
	tokens, lexErrs := lexer.LexSource(id, []byte(src))
	nodes, parseErrs := parseInput(tokens)

	for _, n := range nodes {
		if n == "" {
			continue
		}
		if s.color {
			n = blue(n)
		}
		fmt.Fprintln(stdout, n)
	}

	var ds []diag.Diagnostic
	for _, e := range lexErrs {
		ds = append(ds, e)
	}
	for _, e := range parseErrs {
		ds = append(ds, e)
	}
	if len(ds) == 0 {
		return true
	}

	var sb strings.Builder
	_ = diag.RenderAll(&sb, s.files, ds)
	report := sb.String()
	if s.color {
		report = red(report)
	}
	_, _ = io.WriteString(stderr, report)
	return false
}
