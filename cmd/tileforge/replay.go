package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/tileforge/internal/document"
	"github.com/Faultbox/tileforge/internal/editor"
	"github.com/Faultbox/tileforge/internal/mesh"
	"github.com/Faultbox/tileforge/internal/script"
)

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml|script.toml>",
		Short: "Run an editing script headless and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := script.Load(args[0])
			if err != nil {
				return err
			}

			session := editor.NewSession(cfg)
			cache := mesh.NewCache(mesh.BuildOptions{})
			session.OnStale = func(refs []document.ObjectRef) {
				cache.Rebuild(session.Scene, refs)
			}

			report, err := script.Run(session, sc)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report)
			fmt.Fprintf(out, "meshes: %d, triangles: %d\n", cache.Len(), cache.Triangles())
			return err
		},
	}
}
