package main

import "github.com/sambabib/eol-checker/cmd"

func main() {
	cmd.Execute()
}
