package main

import "github.com/streamfusion/keyservice/cmd"

func main() {
	cmd.Execute()
}
