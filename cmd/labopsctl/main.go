package main

import (
	"github.com/openlabs-org/labops/cmd/labopsctl/command"
)

func main() {
	command.Execute()
}
