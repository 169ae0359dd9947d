package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/fatih/color"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	Help()
	SetModel(ctx context.Context, args []string) error
	Generate(ctx context.Context, args []string) error
	Vary(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Cost(ctx context.Context, args []string) error
	APIKey(ctx context.Context, args []string) error
}

// runREPL reads a line, dispatches the first word as the command with the
// rest as arguments, and prints any error as the user-facing message. It
// returns on scanner EOF or on "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("img %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			a.Help()
		case "model":
			err = a.SetModel(ctx, args)
		case "g", "generate":
			err = a.Generate(ctx, args)
		case "vary":
			err = a.Vary(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "l", "list":
			err = a.List(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "rm", "delete":
			err = a.Delete(ctx, args)
		case "export":
			err = a.Export(ctx, args)
		case "cost":
			err = a.Cost(ctx, args)
		case "apikey":
			err = a.APIKey(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(color.RedString("Error: %s", imagegen.UserMessage(err)))
		}
	}
}
