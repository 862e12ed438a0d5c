package main

import "yamdb/internal/cli"

func main() {
	cli.Execute()
}
