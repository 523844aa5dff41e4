package main

import (
	"fmt"

	"github.com/plus3/ladybug/ecs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		writeXML bool
		listTags bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [entity.xml...]",
		Short: "Load entity documents and print what they contain",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := newRegistry()
			if listTags {
				for _, tag := range registry.Tags() {
					fmt.Fprintln(cmd.OutOrStdout(), tag)
				}
			}

			system := ecs.NewEntitySystem(registry, ecs.WithLogger(a.log))
			logger := ecs.NewLogger(a.log)
			for _, path := range args {
				e, err := ecs.LoadFromXML(system, path)
				if err != nil {
					return err
				}
				if err := logger.LogEntity(system, zerolog.InfoLevel, e.ID()); err != nil {
					return err
				}
				if writeXML {
					if err := e.WriteXML(cmd.OutOrStdout()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout())
				}
			}
			if len(args) > 0 {
				logger.LogSystem(system, zerolog.InfoLevel)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeXML, "xml", false, "write each loaded entity back out as XML")
	cmd.Flags().BoolVar(&listTags, "tags", false, "list the registered component tags")
	return cmd
}
