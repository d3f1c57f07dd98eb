package main

import "github.com/nborstad/outreach/cmd"

func main() {
	cmd.Execute()
}
