package main

import "streamit/cmd"

func main() {
	cmd.Execute()
}
