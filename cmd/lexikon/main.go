package main

import "github.com/lexikon-app/lexikon/cmd"

func main() {
	cmd.Execute()
}
