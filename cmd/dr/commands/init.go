package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/ui/style"
)

func (c *CLI) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [name]",
		Short: "Create dr.yaml and an empty model with the default layers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			result, err := c.app.Init(cmd.Context(), name)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if result.WroteConfig {
				p.linef("%s wrote %s", p.styles.Success.Render(style.Check), domain.ConfigFileName)
			}
			rel, err := filepath.Rel(result.Workspace.Root, result.Workspace.ModelPath)
			if err != nil {
				rel = result.Workspace.ModelPath
			}
			p.linef("%s initialized model in %s with %d layers", p.styles.Success.Render(style.Check), rel, len(result.Layers))
			p.line(p.styles.Muted.Render(fmt.Sprintf("layers: %v", result.Layers)))
			return nil
		},
	}
}
