package main

import "github.com/insightdelivered/receivables-extractor/cmd"

func main() {
	cmd.Execute()
}
