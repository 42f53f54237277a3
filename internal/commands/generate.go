package commands

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	xsd "github.com/SaeedKokash/xsd-editor-app"
)

// GenerateCmd creates the 'generate' command: schema model JSON in, XSD text out.
func GenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate <model.json>",
		Short: "Generate XSD text from a JSON schema model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read model file")
			}

			var schema xsd.Schema
			if err := json.Unmarshal(data, &schema); err != nil {
				return errors.Wrap(err, "decode schema model")
			}

			content, err := xsd.GenerateXSD(&schema)
			if err != nil {
				return errors.Wrap(err, "generate XSD")
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			return os.WriteFile(output, content, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the XSD to a file instead of stdout")

	return cmd
}
