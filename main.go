package main

import (
	"github.com/luma/memwatch/cmd"
)

func main() {
	cmd.Execute()
}
