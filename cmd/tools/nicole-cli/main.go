/*
nicole-cli runs the gift assistant's message handling offline.

Usage:

	nicole-cli [command]

Available Commands:

	parse       Parse a message into a gift context and queries
	queries     Print only the category queries for a message
	followup    Resolve a follow-up against shown categories
	suggest     Suggest categories adjacent to one category
	activities  List or validate the worker activity registry
*/
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
