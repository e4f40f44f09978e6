package main

import "github.com/yeisme/appforge/cmd"

func main() {
	cmd.Execute()
}
