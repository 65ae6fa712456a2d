package main

import "chronocraft/internal/cli"

func main() {
	cli.Execute()
}
