package main

import "github.com/cadenzaapp/cadenza/cmd"

func main() {
	cmd.Execute()
}
