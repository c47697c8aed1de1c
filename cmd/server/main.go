package main

import "fuelshift/internal/app/server"

func main() {
	server.Run()
}
