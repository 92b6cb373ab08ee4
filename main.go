package main

import (
	"os"

	"ippvm/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
