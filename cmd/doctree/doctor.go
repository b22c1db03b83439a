package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tqbf/doctree/pkg/manifest"
	"github.com/tqbf/doctree/pkg/paths"
	"github.com/tqbf/doctree/pkg/render"
)

func doctorCmd() *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Usage:     "verify the content root is reachable and listable",
		ArgsUsage: "[dir]",
		Action:    doctorAction,
	}
}

func doctorAction(c *cli.Context) error {
	st, err := stackFromFlags(c)
	if err != nil {
		return err
	}
	dir := c.Args().Get(0)
	out := c.App.Writer

	ctx, stop := signalContext()
	defer stop()

	fmt.Fprintf(out, "Content root: %s\n", st.cfg.ContentRoot)

	t := time.Now()
	node, err := st.Fetcher.Fetch(ctx, dir)
	if err != nil {
		fmt.Fprintf(out, "  Manifest: FAIL (%v)\n", err)
		return fmt.Errorf("manifest check failed")
	}
	counts := map[manifest.Kind]int{}
	for _, e := range node.Entries {
		counts[e.Kind]++
	}
	fmt.Fprintf(out,
		"  Manifest: ok (/%s, %d entries in %dms)\n",
		node.Path, len(node.Entries), time.Since(t).Milliseconds(),
	)
	fmt.Fprintf(out,
		"    %d directories, %d files, %d captions, %d translations\n",
		counts[manifest.Directory],
		counts[manifest.File],
		counts[manifest.CaptionFile],
		counts[manifest.LocaleVariant],
	)

	t = time.Now()
	listed := node.Listed()
	names := make([]string, len(listed))
	for i, e := range listed {
		names[i] = e.Name
	}
	found := 0
	for _, r := range st.Captions.ResolveAll(ctx, node.Path, names) {
		if r.OK {
			found++
		}
	}
	fmt.Fprintf(out,
		"  Captions: ok (%d of %d entries in %dms)\n",
		found, len(names), time.Since(t).Milliseconds(),
	)

	_, err = st.Renderer.Render(ctx, render.Request{Dir: "../"})
	if !errors.Is(err, paths.ErrEscapesRoot) {
		fmt.Fprintf(out, "  Confinement: FAIL (%v)\n", err)
		return fmt.Errorf("confinement check failed")
	}
	fmt.Fprintf(out, "  Confinement: ok\n")

	fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}
