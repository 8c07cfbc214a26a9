package main

import "github.com/mcoot/rpsgame-go/internal/cli"

func main() {
	cli.Execute()
}
