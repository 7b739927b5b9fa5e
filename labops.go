package main

import (
	"github.com/openlabs-org/labops/api"
)

func main() {
	api.MainLoop()
}
