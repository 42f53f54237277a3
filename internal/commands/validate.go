package commands

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	xsd "github.com/SaeedKokash/xsd-editor-app"
)

// ValidateCmd creates the 'validate' command: checks an XML instance against
// an XSD schema and prints every error and warning found.
func ValidateCmd() *cobra.Command {
	var schemaPath string
	var quirks, strict bool

	cmd := &cobra.Command{
		Use:   "validate <instance.xml>",
		Short: "Validate an XML instance against an XSD schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaData, err := os.ReadFile(schemaPath)
			if err != nil {
				return errors.Wrap(err, "read XSD file")
			}

			var parseOpts []xsd.ParseOption
			if quirks {
				parseOpts = append(parseOpts, xsd.WithKnownQuirks())
			}
			schema, err := xsd.ParseXSD(schemaData, parseOpts...)
			if err != nil {
				return errors.Wrap(err, "parse XSD")
			}

			xmlData, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read XML file")
			}

			var validateOpts []xsd.ValidateOption
			if strict {
				validateOpts = append(validateOpts, xsd.WithStrictTypes())
			}
			report, err := xsd.Validate(xmlData, schema, validateOpts...)
			if err != nil {
				return errors.Wrap(err, "validate XML")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.ValidatedElement)
			for _, msg := range report.Errors {
				fmt.Fprintf(out, "error: %s\n", msg)
			}
			for _, msg := range report.Warnings {
				fmt.Fprintf(out, "warning: %s\n", msg)
			}

			if !report.IsValid {
				return fmt.Errorf("validation failed with %d error(s)", len(report.Errors))
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "Path to the XSD schema file (required)")
	cmd.Flags().BoolVar(&quirks, "quirks", false, "Apply known schema repairs after parsing")
	cmd.Flags().BoolVar(&strict, "strict", false, "Report elements whose declared type cannot be resolved")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
