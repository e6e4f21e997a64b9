// Command vring maps mirrored ring buffers and checks that they behave:
// aliasing, spill across the unit boundary and formatted record output.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
