package main

import "csv-importer/cmd"

func main() {
	cmd.Execute()
}
