package main

import (
	"finmap/cmd/client/cmd"
)

func main() {
	cmd.Execute()
}
