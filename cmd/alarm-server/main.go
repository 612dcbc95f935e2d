package main

import "github.com/oshokin/zone-alarm/cmd/alarm-server/cmd"

func main() {
	cmd.Execute()
}
