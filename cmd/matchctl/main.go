// Command matchctl runs operator tasks against the matching engine: schema
// migrations, engine statistics and access tokens for manual testing.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
