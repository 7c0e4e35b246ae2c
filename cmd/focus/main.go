package main

import "os"

// Заполняется при сборке через -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(Execute(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...))
}
