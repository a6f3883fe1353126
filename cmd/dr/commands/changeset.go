package commands

import (
	"github.com/spf13/cobra"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/app"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/ui/style"
)

func (c *CLI) newChangesetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "changeset",
		Aliases: []string{"cs"},
		Short:   "Stage, review and commit batches of model changes",
		Long: "Commands taking an optional [id] act on the active changeset when the id is omitted.",
	}

	cmd.AddCommand(c.newChangesetCreateCmd())
	cmd.AddCommand(c.newChangesetListCmd())
	cmd.AddCommand(c.newChangesetShowCmd())
	cmd.AddCommand(c.newChangesetActivateCmd())
	cmd.AddCommand(c.newChangesetDeactivateCmd())
	cmd.AddCommand(c.newChangesetStatusCmd())
	cmd.AddCommand(c.newChangesetDiffCmd())
	cmd.AddCommand(c.newChangesetUnstageCmd())
	cmd.AddCommand(c.newChangesetDiscardCmd())
	cmd.AddCommand(c.newChangesetCommitCmd())
	cmd.AddCommand(c.newChangesetApplyCmd())
	cmd.AddCommand(c.newChangesetRevertCmd())
	cmd.AddCommand(c.newChangesetDeleteCmd())
	cmd.AddCommand(c.newChangesetWatchCmd())
	return cmd
}

func optionalID(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return ""
}

func (c *CLI) newChangesetCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a changeset against the current model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			activate, _ := cmd.Flags().GetBool("activate")

			cs, err := c.app.CreateChangeset(cmd.Context(), args[0], description, activate)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.linef("%s created changeset %s", p.styles.Success.Render(style.Check), cs.ID)
			if activate {
				p.linef("%s %s is now active", p.styles.Accent.Render(style.Dot), cs.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Changeset description")
	cmd.Flags().BoolP("activate", "a", false, "Make the new changeset active")
	return cmd
}

func (c *CLI) newChangesetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List changesets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.app.ListChangesets(cmd.Context())
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).changesets(entries)
			return nil
		},
	}
}

func (c *CLI) newChangesetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a changeset and its staged changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := c.app.ShowChangeset(cmd.Context(), optionalID(args))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).changesetDetail(cs)
			return nil
		},
	}
}

func (c *CLI) newChangesetActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Stage element commands into this changeset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.ActivateChangeset(cmd.Context(), args[0]); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.linef("%s %s is now active", p.styles.Accent.Render(style.Dot), args[0])
			return nil
		},
	}
}

func (c *CLI) newChangesetDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Apply element commands to the model directly again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := c.app.DeactivateChangeset(cmd.Context())
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			if id == "" {
				p.line(p.styles.Muted.Render("no active changeset"))
				return nil
			}
			p.linef("%s %s deactivated", style.Circle, id)
			return nil
		},
	}
}

func (c *CLI) newChangesetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [id]",
		Short: "Summarize staged changes, base drift and projection cache use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.ChangesetStatus(cmd.Context(), optionalID(args))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).status(report)
			return nil
		},
	}
}

func (c *CLI) newChangesetDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [id]",
		Short: "Show the net effect of a changeset on each element",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, diffs, err := c.app.DiffChangeset(cmd.Context(), optionalID(args))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).diff(id, diffs)
			return nil
		},
	}
}

func (c *CLI) newChangesetUnstageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unstage <element-id>",
		Short: "Drop every staged change of an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("changeset")
			result, err := c.app.Unstage(cmd.Context(), id, args[0])
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			if result.Removed == 0 {
				p.line(p.styles.Muted.Render("nothing staged for " + result.ElementID))
				return nil
			}
			p.linef("%s unstaged %d changes of %s", style.Minus, result.Removed, result.ElementID)
			return nil
		},
	}

	cmd.Flags().String("changeset", "", "Changeset to unstage from instead of the active one")
	return cmd
}

func (c *CLI) newChangesetDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard [id]",
		Short: "Drop every staged change and close the changeset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, dropped, err := c.app.Discard(cmd.Context(), optionalID(args))
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.linef("%s discarded %s: %d changes dropped", p.styles.Danger.Render(style.Cross), id, dropped)
			return nil
		},
	}
}

func (c *CLI) newChangesetCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit [id]",
		Short: "Validate a changeset and apply it to the model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noValidate, _ := cmd.Flags().GetBool("no-validate")
			force, _ := cmd.Flags().GetBool("force")

			result, err := c.app.Commit(cmd.Context(), optionalID(args), app.CommitOptions{
				NoValidate: noValidate,
				Force:      force,
			})
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).commitResult("committed", result)
			return nil
		},
	}

	cmd.Flags().Bool("no-validate", false, "Skip validation of the merged model")
	cmd.Flags().BoolP("force", "f", false, "Commit even when the base model drifted")
	return cmd
}

func (c *CLI) newChangesetApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [id]",
		Short: "Apply a changeset to the model without drift or validation checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Apply(cmd.Context(), optionalID(args))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).commitResult("applied", result)
			return nil
		},
	}
}

func (c *CLI) newChangesetRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <id>",
		Short: "Undo the latest commit or apply of a changeset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Revert(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).commitResult("reverted", result)
			return nil
		},
	}
}

func (c *CLI) newChangesetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a changeset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteChangeset(cmd.Context(), args[0]); err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.linef("%s deleted changeset %s", p.styles.Danger.Render(style.Cross), args[0])
			return nil
		},
	}
}

func (c *CLI) newChangesetWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload the model on file changes and report drift of the active changeset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout())
			return c.app.Watch(cmd.Context(), p.watchReport)
		},
	}
}
