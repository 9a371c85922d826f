package main

import (
	"context"
	"os"

	"github.com/agbru/primefind/internal/app"
	"github.com/agbru/primefind/internal/cli"
	apperrors "github.com/agbru/primefind/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.HandleRunError(err, 0, os.Stderr, cli.CLIColorProvider{}))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
