package main

import "github.com/teami-app/teami-backend/cmd"

func main() {
	cmd.Execute()
}
