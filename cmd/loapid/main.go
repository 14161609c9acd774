package main

import "github.com/liftout/liftout/cmd/loapid/cmd"

func main() {
	cmd.Execute()
}
