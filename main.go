package main

import "github.com/nuwandev/github-stats/cmd"

func main() {
	cmd.Execute()
}
