package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lehman-cli/internal/lehman"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate TEXT",
	Short: "Check one input field the way calc does",
	Long:  "Prints whether TEXT is an acceptable EBITDA or multiple. The exit code is 0 either way.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := lehman.Validate(args[0])
		w := cmd.OutOrStdout()

		if validateJSON {
			enc := json.NewEncoder(w)
			return eris.Wrap(enc.Encode(struct {
				lehman.ValidationResult
				Kind    string `json:"kind"`
				Message string `json:"message,omitempty"`
			}{res, res.Kind.String(), res.Kind.Message()}), "validate: encode json")
		}

		var err error
		if res.Valid {
			_, err = fmt.Fprintf(w, "valid: %s\n", strconv.FormatFloat(res.Value, 'f', -1, 64))
		} else {
			_, err = fmt.Fprintf(w, "invalid (%s): %s\n", res.Kind, res.Kind.Message())
		}
		return err
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the verdict as JSON")
	rootCmd.AddCommand(validateCmd)
}
