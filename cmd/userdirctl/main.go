package main

import (
	"github.com/jfellows/userdir/internal/cli"
)

func main() {
	cli.Execute()
}
