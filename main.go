package main

import "github.com/ferreirogomes/fracoes/cli"

func main() {
	cli.Execute()
}
