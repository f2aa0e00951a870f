package main

import "trackcatalog/cmd"

func main() {
	cmd.Execute()
}
