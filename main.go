package main

import "github.com/saadjs/nutrigoal/cmd/nutrigoal"

func main() {
	nutrigoal.Execute()
}
