package main

import "github.com/pfrederiksen/add2cal/internal/cli"

func main() {
	cli.Execute()
}
