package main

import "github.com/quietloop/asdep/cmd"

func main() {
	cmd.Execute()
}
