package main

import (
	"context"
	"os"

	"github.com/yaklabco/branchtag/cmd/branchtag"
)

func main() {
	os.Exit(actualMain())
}

func actualMain() int {
	ctx := context.Background()

	rootCmd := branchtag.NewRootCmd(ctx)
	if args := branchtag.HookArgs(os.Args); args != nil {
		rootCmd.SetArgs(args)
	}

	return branchtag.ExitCode(branchtag.ExecuteWithFang(ctx, rootCmd))
}
