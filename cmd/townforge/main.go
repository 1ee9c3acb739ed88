package main

import "github.com/arl/townforge/cmd/townforge/cmd"

func main() {
	cmd.Execute()
}
