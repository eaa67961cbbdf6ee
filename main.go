package main

import "github.com/studypulse/pulse/cmd"

func main() {
	cmd.Execute()
}
