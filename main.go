package main

import "github.com/RyanBlaney/wavecap/cmd"

func main() {
	cmd.Execute()
}
