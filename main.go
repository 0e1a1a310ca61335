// main is the entry point of the cellplot CLI.
package main

import (
	"github.com/cellplot/cellplot/cmd"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/store"
)

func main() {
	defer store.CloseStore()

	err := cmd.Execute()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	if err != nil {
		store.CloseStore()
		contract.LogFatal("Command failed", err)
	}
}
