package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Antorya/abootimg/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the abootimg version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Println("abootimg " + version.String())
			return nil
		},
	}
}
