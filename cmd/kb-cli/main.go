package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/robomind/pkg/robomind/inference"
)

const usage = `Commands:
  tell <Fact>            add a fact and chain, e.g. tell Free(1,2)
  ask <Fact>             check whether a fact holds
  rule <Head :- P1, P2>  add a rule (applied on the next tell or infer)
  infer                  chain to a fixpoint
  facts [Predicate]      list facts
  rules                  list rules
  explain <Fact>         show how a fact was derived
  load <file>            load a rule file
  save <file>            write rules and told facts to a file
  clear [facts|rules]    drop facts (default) or rules
  help                   show this message`

var errQuit = errors.New("quit")

func main() {
	var (
		rulesPath = flag.String("rules", "", "Rule file to load at startup (optional)")
		command   = flag.String("exec", "", "Semicolon-separated commands (non-interactive mode)")
		trace     = flag.Bool("trace", false, "Print each derived fact")
	)
	flag.Parse()

	var opts []inference.Option
	if *trace {
		opts = append(opts, inference.WithTrace(func(d inference.Derivation) {
			fmt.Printf("  derived %s by rule %d %s\n", d.Fact, d.RuleIdx+1, d.Bindings)
		}))
	}
	sess := newSession(os.Stdout, opts...)

	if *rulesPath != "" {
		if err := sess.load(*rulesPath); err != nil {
			log.Fatal(err)
		}
	}

	// One-shot mode
	if *command != "" {
		for _, line := range strings.Split(*command, ";") {
			if err := sess.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return
				}
				log.Fatal(err)
			}
		}
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  RoboMind Knowledge Base")
	fmt.Println("  Forward-chaining inference")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type 'help' for commands (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if err := sess.exec(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Println("Error:", err)
		}
	}

	fmt.Println("\nGoodbye!")
}

// session is one REPL over a knowledge base
type session struct {
	kb  *inference.KnowledgeBase
	out io.Writer
}

func newSession(out io.Writer, opts ...inference.Option) *session {
	return &session{kb: inference.New(opts...), out: out}
}

func (s *session) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules: %w", err)
	}
	if err := s.kb.LoadRules(string(data)); err != nil {
		return fmt.Errorf("load rules %s: %w", path, err)
	}
	return nil
}

func (s *session) save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := s.kb.WriteRules(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

// exec runs one command line
func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSuffix(strings.TrimSpace(arg), ".")

	switch strings.ToLower(cmd) {
	case "tell":
		before := s.kb.Len()
		if err := s.kb.TellString(arg); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "ok (%d new facts)\n", s.kb.Len()-before)
	case "ask":
		ok, err := s.kb.AskString(arg)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(s.out, "yes")
		} else {
			fmt.Fprintln(s.out, "no")
		}
	case "rule":
		r, err := inference.ParseRule(arg)
		if err != nil {
			return err
		}
		if err := s.kb.AddRule(r); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "rule %d: %s\n", len(s.kb.Rules()), r)
	case "infer":
		fmt.Fprintf(s.out, "derived %d facts\n", s.kb.Infer())
	case "facts":
		n := 0
		for _, f := range s.kb.Facts() {
			if arg != "" && f.Predicate != arg {
				continue
			}
			fmt.Fprintln(s.out, " ", f)
			n++
		}
		fmt.Fprintf(s.out, "%d facts\n", n)
	case "rules":
		for i, r := range s.kb.Rules() {
			fmt.Fprintf(s.out, "  %d. %s\n", i+1, r)
		}
	case "explain":
		f, err := inference.ParseFact(arg)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, s.kb.Explain(f))
	case "load":
		if arg == "" {
			return errors.New("load: file required")
		}
		if err := s.load(arg); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d rules, %d facts\n", len(s.kb.Rules()), s.kb.Len())
	case "save":
		if arg == "" {
			return errors.New("save: file required")
		}
		if err := s.save(arg); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "saved %s\n", arg)
	case "clear":
		switch arg {
		case "", "facts":
			s.kb.ClearFacts()
		case "rules":
			s.kb.ClearRules()
		default:
			return fmt.Errorf("clear: unknown target %q", arg)
		}
		fmt.Fprintln(s.out, "cleared")
	case "help":
		fmt.Fprintln(s.out, usage)
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}
