package main

import "github.com/assetnote/rawfetch/cmd/rawfetch/cmd"

func main() {
	cmd.Execute()
}
