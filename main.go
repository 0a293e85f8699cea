package main

import "github.com/ncihtan/go-htancensor/cmd"

func main() {
	cmd.Execute()
}
