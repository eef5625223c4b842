package main

import "hourlog/cmd"

func main() {
	cmd.Execute()
}
