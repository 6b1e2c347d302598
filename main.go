package main

import "phenomatrix/cmd"

func main() {
	cmd.Execute()
}
