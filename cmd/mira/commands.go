package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/mira-lang/mira/parser"
)

// ExprCmd parses one expression, from its argument or stdin.
type ExprCmd struct {
	Source string `arg:"" optional:"" help:"Expression to parse (reads stdin when omitted)"`
}

// Run executes the expr command
func (cmd *ExprCmd) Run(ctx *Context) error {
	source := cmd.Source
	if source == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		source = string(data)
	}

	expr, err := parser.ParseExpression(source)
	if err != nil {
		color.Red("%v", err)
		return err
	}

	out, err := yaml.Marshal(dumpExpr(expr))
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// ParseCmd parses a whole file of definitions.
type ParseCmd struct {
	File string `arg:"" type:"existingfile" help:"Source file to parse"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	decls, err := parser.ParseDefinitions(string(data))
	if err != nil {
		color.Red("%v", err)
		return err
	}

	trees := make([]any, len(decls))
	for i, decl := range decls {
		trees[i] = dumpDef(decl.Def)
	}
	out, err := yaml.Marshal(trees)
	if err != nil {
		return fmt.Errorf("failed to marshal trees: %w", err)
	}
	fmt.Print(string(out))

	if !ctx.Quiet {
		color.Green("Parsed %d definition(s) from %s", len(decls), cmd.File)
	}
	return nil
}
