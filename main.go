package main

import "github.com/lepinkainen/tmdbstash/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
