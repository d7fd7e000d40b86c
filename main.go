package main

import "github.com/khanhnv2901/nis2-assess/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
