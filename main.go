package main

import "go.infratographer.com/nodebalancer-manager/cmd"

func main() {
	cmd.Execute()
}
