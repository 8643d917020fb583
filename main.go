package main

import "zonefinder.dev/backend/cmd/app"

func main() {
	app.Run()
}
