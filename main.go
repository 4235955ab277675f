package main

import "github.com/Beastly713/lsbtext/cmd"

func main() {
	cmd.Execute()
}
