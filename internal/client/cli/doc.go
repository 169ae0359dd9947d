// Package cli provides the interactive terminal client.
//
// It wires configuration, local storage, the image API client and the
// history services into a REPL. Commands take their options as flags
// before positional arguments:
//
//	generate -n 2 -size 512x512 a watercolor fox
//	vary -n 3 ./fox.png
//	edit -mask ./mask.png ./fox.png add a red scarf
//	list | show <id> | delete <id>... | export <id> [dir]
//	model [name] | cost [-n N] [-size S] [-quality Q]
//	apikey set|unlock|status|clear
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
