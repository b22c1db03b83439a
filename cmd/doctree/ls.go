package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/tqbf/doctree/pkg/present"
	"github.com/tqbf/doctree/pkg/protocol"
	"github.com/tqbf/doctree/pkg/render"
)

func lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list a directory of the content root",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"r"},
				Usage:   "expand subdirectories",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "recursion bound for --tree (default from config)",
			},
			&cli.StringFlag{
				Name:  "remote",
				Usage: "list through a running doctree server at this URL",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print lines as JSON",
			},
		},
		Action: lsAction,
	}
}

func lsAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("usage: doctree ls [dir]")
	}
	req := render.Request{
		Dir:       c.Args().Get(0),
		Recursive: c.Bool("tree"),
	}

	ctx, stop := signalContext()
	defer stop()

	var (
		listing *render.Listing
		err     error
	)
	if remote := c.String("remote"); remote != "" {
		listing, err = protocol.Dial(
			ctx, remote, req.Dir, req.Recursive, http.DefaultClient,
		)
	} else {
		var st *stack
		st, err = stackFromFlags(c)
		if err != nil {
			return err
		}
		if c.IsSet("max-depth") {
			st.Renderer.MaxDepth = c.Int("max-depth")
		}
		listing, err = st.Renderer.Render(ctx, req)
	}
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		for _, line := range listing.Lines {
			if err := enc.Encode(line); err != nil {
				return err
			}
		}
		return nil
	}
	return present.Text(out, listing)
}
