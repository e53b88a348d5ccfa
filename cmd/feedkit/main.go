package main

import (
	"feedkit/internal/cmd"
)

func main() {
	cmd.Run()
}
