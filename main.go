package main

import (
	"github.com/netonframework/docsite/cmd"
)

func main() {
	cmd.Execute()
}
