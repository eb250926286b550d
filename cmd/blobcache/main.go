package main

import "github.com/aweris/blobcache/cmd/blobcache/cmd"

func main() {
	cmd.Execute()
}
