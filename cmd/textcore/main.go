// Package main is the entry point for the textcore command.
package main

import "github.com/dshills/textcore/cmd/textcore/cmd"

func main() {
	cmd.Execute()
}
