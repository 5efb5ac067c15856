package main

import "pltpages/cmd/plt2pdf/cmd"

func main() {
	cmd.Execute()
}
