// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command routex sends one HTTP request and prints the response,
// routing it by status series.
//
//	routex get https://api.example.com/users/42 --select name
//	routex post https://api.example.com/users -d '{"name":"ann"}'
package main

import (
	"os"

	"github.com/gogama/routex/internal/cli"
)

// Main runs the command and returns its exit code.
func Main() int {
	return cli.Execute(os.Args[1:], os.Stdout, os.Stderr)
}

func main() {
	os.Exit(Main())
}
