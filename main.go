package main

import "github.com/yeremiapane/food-order-app/cmd"

func main() {
	cmd.Execute()
}
