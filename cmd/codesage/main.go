package main

import (
	"github.com/ytget/codesage/internal/cli"
)

var version = "dev"

func main() {
	cli.Execute(version)
}
