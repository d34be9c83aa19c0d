// Package main is the entry point for the scriptprep CLI.
package main

import "scriptprep.dev/pkg/scriptprep/cmd"

func main() {
	cmd.Execute()
}
