package main

import "github.com/saumyapandey31/Phishnet/cmd"

func main() {
	cmd.Execute()
}
