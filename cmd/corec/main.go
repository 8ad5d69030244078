// Command corec is a thin driver that exercises the core pipeline
// end to end for manual smoke-testing (§1 places the CLI driver
// outside the core's contract; this is the external collaborator that
// calls into it). Mirrors cmd/ailang/main.go: flag parsing, version
// and help handling, colorized success/error printing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	// Version info, set by ldflags during build.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		configFlag  = flag.String("config", "", "Path to a YAML compile-options file")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	opts, err := loadCompileOptions(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "demo":
		runDemo(opts)
	case "inspect":
		runInspect()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("corec %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("corec - compiler core driver"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  corec <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s      Lower and ARC-analyze a small built-in sample program\n", cyan("demo"))
	fmt.Printf("  %s   Start the interactive type/ARC inspector\n", cyan("inspect"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        Print version information")
	fmt.Println("  --help           Show this help message")
	fmt.Println("  --config <file>  YAML compile-options file")
}
