package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Verbose bool
	Quiet   bool
}

// CLI represents the command-line interface
var CLI struct {
	Verbose bool `help:"Enable verbose output" short:"v"`
	Quiet   bool `help:"Suppress progress output" short:"q"`

	Expr    ExprCmd    `cmd:"" help:"Parse a single expression and print its tree"`
	Parse   ParseCmd   `cmd:"" help:"Parse a file of definitions and print their trees"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("mira v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
