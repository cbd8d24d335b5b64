// dot15d4dump decodes IEEE 802.15.4 MAC frames from hex input.
package main

import (
	"github.com/dantte-lp/go154/cmd/dot15d4dump/commands"
)

func main() {
	commands.Execute()
}
