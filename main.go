package main

import "temperature-consumer/cmd"

func main() {
	cmd.Execute()
}
