package main

import "github.com/xoviat/jsym/cmd"

func main() {
	cmd.Execute()
}
