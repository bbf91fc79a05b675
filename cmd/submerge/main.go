package main

import "submerge/internal/cli"

func main() {
	cli.Main()
}
