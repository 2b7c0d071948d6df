// Command dexsimd is a single-process simulator for the pool engine and
// limit-order engine: every command operates against one in-memory
// ledger for the lifetime of the process, so a shell script can chain
// create-pool, add-liquidity, swap, and limit-order commands to drive
// an end-to-end scenario without a real chain underneath.
package main

import (
	"os"

	"github.com/GalaChain/dex-sub000/cmd/dexsimd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
