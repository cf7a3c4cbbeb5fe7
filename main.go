package main

import "github.com/studyplatform/studyctl/cmd"

func main() {
	cmd.Execute()
}
