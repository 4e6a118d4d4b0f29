package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savaslabs/drupal-editor-agent/internal/terminal"
)

func newGetNodeCmd() *cobra.Command {
	var nid int

	cmd := &cobra.Command{
		Use:           "get-node [nid]",
		Short:         "Fetch a node and print its identity and moderation state",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, cancel := commandContext(logger)
			defer cancel()

			id, err := resolveNID(cmd, args, nid)
			if err != nil {
				return fail(logger, err)
			}

			s, err := newSession(cmd, logger)
			if err != nil {
				return err
			}

			entity, err := s.client.GetNode(ctx, id)
			if err != nil {
				return s.finish(ctx, err)
			}

			fmt.Printf("%s%s%s %q\n", terminal.Color(terminal.Bold), entity.Ref, terminal.Color(terminal.Reset), entity.Title)
			if entity.Bundle != "" {
				fmt.Printf("  type:      %s\n", entity.Bundle)
			}
			if entity.ModerationState != "" {
				fmt.Printf("  state:     %s\n", entity.ModerationState)
			}
			fmt.Printf("  published: %v\n", entity.Published)
			for field, value := range entity.Fields {
				fmt.Printf("  %s: %s\n", field, terminal.Truncate(value, 80))
			}

			return s.finish(ctx, nil)
		},
	}

	cmd.Flags().IntVar(&nid, "nid", 0,
		"Node ID to fetch")

	return cmd
}
