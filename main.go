package main

import "clientconnect-backend/cmd"

func main() {
	cmd.Execute()
}
