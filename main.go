package main

import "inkpot/service"

func main() {
	service.Execute()
}
