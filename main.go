package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/kawaiicleanup/assetcopier/cmd"
)

const version = "0.1.0"

func main() {
	root := cmd.NewRootCmd()

	// fang renders errors, adds --version and cancels the context on Ctrl+C so a copy stops between assets
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
