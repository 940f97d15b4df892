package main

import "github.com/takeshy/drivevids/cmd"

func main() {
	cmd.Execute()
}
