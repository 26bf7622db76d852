// Package main is the entry point for the admetrics CLI tool, which replays
// Ability Draft matches and ranks ability synergies.
package main

import "github.com/pable/go-ad-metrics/cmd"

func main() {
	cmd.Execute()
}
