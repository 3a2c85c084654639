package main

import "cup-admin/internal/cli"

func main() {
	cli.Execute()
}
