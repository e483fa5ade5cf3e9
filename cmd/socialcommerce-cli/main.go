package main

import "github.com/zfogg/socialcommerce/cli/internal/cmd"

func main() {
	cmd.Execute()
}
