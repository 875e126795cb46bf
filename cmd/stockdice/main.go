package main

import (
	"stockdice/internal/cli"
)

func main() {
	cli.Execute()
}
