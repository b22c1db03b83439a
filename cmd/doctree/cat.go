package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"
)

func catCmd() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "print a file from the content root",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "lang",
				Usage: "prefer the translation with this locale suffix",
			},
		},
		Action: catAction,
	}
}

func catAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: doctree cat <file>")
	}
	st, err := stackFromFlags(c)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	content, err := st.Viewer.View(ctx, c.Args().Get(0), c.String("lang"))
	if err != nil {
		return err
	}
	defer content.Body.Close()

	slog.Debug("viewing", "path", content.Path)
	_, err = io.Copy(c.App.Writer, content.Body)
	return err
}
