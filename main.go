package main

import "github.com/alirogz/smartfarm/app"

func main() {
	app.Run()
}
