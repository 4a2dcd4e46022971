package main

import "skinledger/cmd"

func main() {
	cmd.Execute()
}
