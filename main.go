package main

import "github.com/utcd/utcd/internal/cli"

func main() {
	cli.Execute()
}
