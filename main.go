package main

import "paramcheck/cmd"

func main() {
	cmd.Execute()
}
