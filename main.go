package main

import "github.com/fedsign/fedsign/cmd"

func main() {
	cmd.Execute()
}
