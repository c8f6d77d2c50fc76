// Package main provides the entry point for the endstate CLI.
package main

import "os"

func main() {
	os.Exit(Execute())
}
