package main

import "github.com/alexiusacademia/goebr2/cmd"

func main() {
	cmd.Execute()
}
