package main

import "sdformat/internal/cli"

func main() {
	cli.Execute()
}
