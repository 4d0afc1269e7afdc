// Copyright © 2025 The MON authors

// Command mon lints, formats and checks MON files.
package main

import "github.com/mon-lang/mon/cmd"

func main() {
	cmd.Execute()
}
