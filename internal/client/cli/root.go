package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s, key: %s)", a.model, a.keySource)
}

// Root runs the REPL over in until EOF or exit.
func (a *App) Root(ctx context.Context, in io.Reader) {
	printlnFn("Welcome to the image studio (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(in))
}

func (a *App) Help() {
	fmt.Fprintln(a.out, `Available commands:
  generate [-n N] [-size S] [-quality Q] [-format F] [-background B] [-moderation M] [-compression C] <prompt>
  vary [-n N] [-size S] <image file>
  edit [-n N] [-size S] -mask <mask file> <image file> <prompt>
  list                      show history, newest first
  show <id>                 show one record
  delete <id>...            delete records and their images
  export <id> [dir]         write a record's images to disk
  model [name]              show or switch the model
  cost [-n N] [-size S] [-quality Q]
  apikey set|unlock|status|clear
  exit`)
}
