package main

import "github.com/MrSnakeDoc/startpage/cmd/startpage-cli/cmd"

func main() {
	cmd.Execute()
}
