package main

import "pixelfield/internal/engine"

func main() {
	engine.RunDesktop()
}
