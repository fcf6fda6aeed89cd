package main

import "github.com/KaramelBytes/tipdash/cmd"

func main() {
	cmd.Execute()
}
