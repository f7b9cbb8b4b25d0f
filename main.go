package main

import "salary-band/cli"

func main() {
	cli.Execute()
}
