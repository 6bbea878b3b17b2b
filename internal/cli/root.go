package cli

import (
	"github.com/comandaapp/comanda/internal/pkg/telemetry"
	"github.com/spf13/cobra"
)

// Execute runs the CLI. Returned errors were already reported to the user.
func Execute() error {
	var verbose bool
	var a *app

	root := &cobra.Command{
		Use:           "comanda",
		Short:         "Restaurant order management from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			telemetry.InitCLILogger(verbose)
			var err error
			a, err = newApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(&a),
		newLogoutCmd(&a),
		newCategoryCmd(&a),
		newProductCmd(&a),
		newOrderCmd(&a),
	)

	err := root.Execute()
	if err != nil {
		reportError(err)
	}
	return err
}
