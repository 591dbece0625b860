// Command forestctl builds, adapts, inspects, and checkpoints forests
// from the command line.
package main

import "github.com/meshforest/forest/cmd/forestctl/cmd"

func main() {
	cmd.Execute()
}
