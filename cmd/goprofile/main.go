package main

import "github.com/dbsmedya/goprofile/cmd/goprofile/cmd"

func main() {
	cmd.Execute()
}
