package main

import "github.com/verloop/md2chunks/cmd"

func main() {
	cmd.Execute()
}
