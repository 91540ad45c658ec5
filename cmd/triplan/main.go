package main

import "alcyxob/triplan/internal/cli"

func main() {
	cli.Execute()
}
