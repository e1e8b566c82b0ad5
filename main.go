// Package main is the entry point for the pyupgradecheck CLI.
//
// pyupgradecheck reports whether Python packages declare support for a
// target Python version.
package main

import "github.com/ajxudir/pyupgradecheck/cmd"

func main() {
	cmd.Execute()
}
