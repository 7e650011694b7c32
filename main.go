// Package main is the entry point for the sessionctl CLI application.
// It manages a bearer-token session against an account API.
package main

import (
	"sessionctl/cli/cmd"
)

// main is the entry point for the sessionctl CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
