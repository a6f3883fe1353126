package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/app"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newElementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "element",
		Aliases: []string{"el"},
		Short:   "Add, change and inspect model elements",
		Long: "Element mutations are staged into the active changeset when one is set " +
			"and applied to the model directly otherwise. Reads show the active changeset's view unless --base is given.",
	}

	cmd.AddCommand(c.newElementAddCmd())
	cmd.AddCommand(c.newElementUpdateCmd())
	cmd.AddCommand(c.newElementDeleteCmd())
	cmd.AddCommand(c.newElementListCmd())
	cmd.AddCommand(c.newElementShowCmd())
	cmd.AddCommand(c.newElementSearchCmd())
	return cmd
}

func (c *CLI) newElementAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <layer> <type> <name>",
		Short: "Add an element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			props, _ := cmd.Flags().GetStringArray("property")
			rels, _ := cmd.Flags().GetStringArray("relationship")

			properties, err := parseProperties(props)
			if err != nil {
				return err
			}
			relationships, err := parseRelationships(rels)
			if err != nil {
				return err
			}

			result, err := c.app.AddElement(cmd.Context(), app.ElementInput{
				Layer:         args[0],
				Type:          args[1],
				Name:          args[2],
				Description:   description,
				Properties:    properties,
				Relationships: relationships,
			})
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).elementResult("add", result)
			return nil
		},
	}

	cmd.Flags().StringP("description", "d", "", "Element description")
	cmd.Flags().StringArrayP("property", "p", nil, "Property as key=value, repeatable")
	cmd.Flags().StringArrayP("relationship", "r", nil, "Relationship as type:target-id, repeatable")
	return cmd
}

func (c *CLI) newElementUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <element-id>",
		Short: "Update an element's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			props, _ := flags.GetStringArray("property")
			unset, _ := flags.GetStringArray("unset")
			rels, _ := flags.GetStringArray("relationship")
			clearRels, _ := flags.GetBool("clear-relationships")

			var patch app.ElementPatch
			if flags.Changed("name") {
				name, _ := flags.GetString("name")
				patch.Name = &name
			}
			if flags.Changed("description") {
				description, _ := flags.GetString("description")
				patch.Description = &description
			}

			properties, err := parseProperties(props)
			if err != nil {
				return err
			}
			for _, key := range unset {
				if properties == nil {
					properties = make(map[string]any, len(unset))
				}
				properties[key] = nil
			}
			patch.Properties = properties

			if len(rels) > 0 || clearRels {
				relationships, err := parseRelationships(rels)
				if err != nil {
					return err
				}
				if relationships == nil {
					relationships = []domain.Relationship{}
				}
				patch.Relationships = relationships
			}

			if patch.Empty() {
				return domain.ErrNothingToUpdate
			}

			result, err := c.app.UpdateElement(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).elementResult("update", result)
			return nil
		},
	}

	cmd.Flags().String("name", "", "New element name, the id is unchanged")
	cmd.Flags().StringP("description", "d", "", "New element description")
	cmd.Flags().StringArrayP("property", "p", nil, "Set a property as key=value, repeatable")
	cmd.Flags().StringArray("unset", nil, "Remove a property, repeatable")
	cmd.Flags().StringArrayP("relationship", "r", nil, "Replace relationships with type:target-id, repeatable")
	cmd.Flags().Bool("clear-relationships", false, "Remove every relationship")
	return cmd
}

func (c *CLI) newElementDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <element-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an element",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.DeleteElement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).elementResult("delete", result)
			return nil
		},
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("base", false, "Read the base model instead of the active changeset's view")
	cmd.Flags().String("changeset", "", "Read the view of this changeset instead of the active one")
}

func viewOptions(cmd *cobra.Command) app.ViewOptions {
	base, _ := cmd.Flags().GetBool("base")
	changeset, _ := cmd.Flags().GetString("changeset")
	return app.ViewOptions{Base: base, Changeset: changeset}
}

func listOptions(cmd *cobra.Command) app.ListOptions {
	layer, _ := cmd.Flags().GetString("layer")
	elementType, _ := cmd.Flags().GetString("type")
	return app.ListOptions{ViewOptions: viewOptions(cmd), Layer: layer, Type: elementType}
}

func (c *CLI) newElementListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List elements",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := c.app.ListElements(cmd.Context(), listOptions(cmd))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).elements(view)
			return nil
		},
	}

	cmd.Flags().StringP("layer", "l", "", "Only list this layer")
	cmd.Flags().StringP("type", "t", "", "Only list elements of this type")
	addViewFlags(cmd)
	return cmd
}

func (c *CLI) newElementShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <element-id>",
		Short: "Show one element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.ShowElement(cmd.Context(), args[0], viewOptions(cmd))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).element(view)
			return nil
		},
	}

	addViewFlags(cmd)
	return cmd
}

func (c *CLI) newElementSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find elements whose id, name or description contains the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.SearchElements(cmd.Context(), args[0], listOptions(cmd))
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).elements(view)
			return nil
		},
	}

	cmd.Flags().StringP("layer", "l", "", "Only search this layer")
	cmd.Flags().StringP("type", "t", "", "Only match elements of this type")
	addViewFlags(cmd)
	return cmd
}

// parseProperties reads key=value pairs. Values are decoded as YAML scalars so numbers and booleans keep their type.
func parseProperties(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidKeyValue, "expected key=value"), "property", pair)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		out[key] = value
	}
	return out, nil
}

// parseRelationships reads type:target pairs.
func parseRelationships(pairs []string) ([]domain.Relationship, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make([]domain.Relationship, 0, len(pairs))
	for _, pair := range pairs {
		relType, target, ok := strings.Cut(pair, ":")
		relType, target = strings.TrimSpace(relType), strings.TrimSpace(target)
		if !ok || relType == "" || target == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidKeyValue, "expected type:target-id"), "relationship", pair)
		}
		out = append(out, domain.Relationship{Type: relType, Target: target})
	}
	return out, nil
}
