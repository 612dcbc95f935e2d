package main

import "github.com/oshokin/zone-alarm/cmd/alarm-keypad/cmd"

func main() {
	cmd.Execute()
}
