package main

import "github.com/orthoweb/orthoweb/cmd"

func main() {
	cmd.Execute()
}
