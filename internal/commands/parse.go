package commands

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	xsd "github.com/SaeedKokash/xsd-editor-app"
)

// ParseCmd creates the 'parse' command: XSD text in, schema model JSON out.
func ParseCmd() *cobra.Command {
	var output string
	var quirks bool

	cmd := &cobra.Command{
		Use:   "parse <schema.xsd>",
		Short: "Parse an XSD file into a JSON schema model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read XSD file")
			}

			var opts []xsd.ParseOption
			if quirks {
				opts = append(opts, xsd.WithKnownQuirks())
			}
			schema, err := xsd.ParseXSD(data, opts...)
			if err != nil {
				return errors.Wrap(err, "parse XSD")
			}

			encoded, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return errors.Wrap(err, "encode schema model")
			}
			encoded = append(encoded, '\n')

			if output == "" {
				_, err = cmd.OutOrStdout().Write(encoded)
				return err
			}
			return os.WriteFile(output, encoded, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the model to a file instead of stdout")
	cmd.Flags().BoolVar(&quirks, "quirks", false, "Apply known schema repairs after parsing")

	return cmd
}
