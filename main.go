package main

import "github.com/smartflow-ai/smartflow/cmd"

func main() {
	cmd.Execute()
}
