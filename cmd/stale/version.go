package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
)

func VersionDisplay(cc *cli.Context) {
	fmt.Printf("stale %s (%s)\n", version, commit) //nolint
}
