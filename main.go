package main

import "github.com/assinaclub/ms-go-billing/cmd"

func main() {
	cmd.Execute()
}
