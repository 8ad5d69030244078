package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sunholo/corec/internal/arcclass"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

// runInspect starts a line-edited REPL over the type pool: each line is
// parsed as a type expression (e.g. "Option<Str>", "List<Int>") and
// printed back with its ARC classification, mirroring
// internal/repl/repl.go's use of liner for history and line editing.
func runInspect() {
	in := ident.New()
	p := pool.New(in)
	classifier := arcclass.New(p)

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".corec_inspect_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("%s %s\n", bold("corec inspect"), bold(Version))
	fmt.Println("Type a type expression (Int, Str, Option<Str>, List<Int>, ...), :help, or :quit")

	line.SetCompleter(func(l string) (c []string) {
		for _, name := range typeNameKeywords {
			if strings.HasPrefix(name, l) {
				c = append(c, name)
			}
		}
		return
	})

repl:
	for {
		input, err := line.Prompt("corec> ")
		if err == io.EOF {
			fmt.Println(green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":help", ":h":
			printInspectHelp()
			continue
		case ":quit", ":q":
			fmt.Println(green("Goodbye!"))
			break repl
		}

		idx, err := parseTypeExpr(p, in, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}
		class := classifier.Classify(idx)
		fmt.Printf("%s : %s  needsRC=%v\n", cyan(p.FormatType(idx)), yellow(class.String()), classifier.NeedsRC(idx))
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func printInspectHelp() {
	fmt.Println("Commands:")
	fmt.Println("  :help, :h   Show this help")
	fmt.Println("  :quit, :q   Exit")
	fmt.Println()
	fmt.Println("Type expressions:")
	fmt.Println("  Int, Float, Bool, Char, Byte, Str, Unit, Never, Error, Duration, Size, Ordering")
	fmt.Println("  Option<T>, List<T>, Set<T>, Range<T>, Channel<T>")
}

var typeNameKeywords = []string{
	"Int", "Float", "Bool", "Char", "Byte", "Str", "Unit", "Never",
	"Error", "Duration", "Size", "Ordering", "Option<", "List<", "Set<",
	"Range<", "Channel<",
}

// parseTypeExpr parses a tiny surface syntax over the pool: a bare
// primitive name, or Ctor<inner> for the single-child containers. This
// is intentionally minimal — the inspector exists to query the pool
// and classifier interactively, not to replace the canonicalizer.
func parseTypeExpr(p *pool.Pool, in *ident.Interner, s string) (pool.Idx, error) {
	s = strings.TrimSpace(s)
	if open := strings.IndexByte(s, '<'); open >= 0 {
		if !strings.HasSuffix(s, ">") {
			return pool.None, fmt.Errorf("unterminated %q: expected closing '>'", s)
		}
		ctor := strings.TrimSpace(s[:open])
		inner, err := parseTypeExpr(p, in, s[open+1:len(s)-1])
		if err != nil {
			return pool.None, err
		}
		switch ctor {
		case "Option":
			return p.Option(inner), nil
		case "List":
			return p.ListOf(inner), nil
		case "Set":
			return p.SetOf(inner), nil
		case "Range":
			return p.RangeOf(inner), nil
		case "Channel":
			return p.Channel(inner), nil
		default:
			return pool.None, fmt.Errorf("unknown container %q", ctor)
		}
	}

	switch s {
	case "Int":
		return pool.IntIdx, nil
	case "Float":
		return pool.FloatIdx, nil
	case "Bool":
		return pool.BoolIdx, nil
	case "Char":
		return pool.CharIdx, nil
	case "Byte":
		return pool.ByteIdx, nil
	case "Str":
		return pool.StrIdx, nil
	case "Unit":
		return pool.UnitIdx, nil
	case "Never":
		return pool.NeverIdx, nil
	case "Error":
		return pool.ErrorIdx, nil
	case "Duration":
		return pool.DurationIdx, nil
	case "Size":
		return pool.SizeIdx, nil
	case "Ordering":
		return pool.OrderingIdx, nil
	default:
		return pool.None, fmt.Errorf("unknown type %q", s)
	}
}
