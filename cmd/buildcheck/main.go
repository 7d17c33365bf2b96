package main

import (
	"github.com/caddybuilds/buildcheck/pkg/cli"
	"github.com/caddybuilds/buildcheck/pkg/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatal("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatal("%s", err)
	}
}
