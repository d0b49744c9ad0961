package main

import "github.com/slipway-sh/slipway/cmd/slipway"

func main() {
	slipway.Execute()
}
