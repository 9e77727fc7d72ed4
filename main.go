package main

import "github.com/KaramelBytes/orderlens/cmd"

func main() {
	cmd.Execute()
}
