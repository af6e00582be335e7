package main

import (
	"os"

	"nsbind/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args))
}
