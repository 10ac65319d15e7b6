package main

import "github.com/statforge/statforge/cmd"

func main() {
	cmd.Execute()
}
