package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgscan/pkg/render"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		jsonOut bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Recognize a single manifest file",
		Example: `  pkgscan inspect composer.json
  pkgscan inspect vendor/monolog/monolog/composer.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			scanner := newScanner(ctx, cfg, noCache)
			defer scanner.Cache.Close()

			pkg, err := scanner.Recognize(ctx, args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				// A manifest without a usable package prints "null".
				return render.WriteJSON(cmd.OutOrStdout(), pkg)
			}
			if pkg == nil {
				printWarning("%s does not declare a usable package (name and description are required)", args[0])
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), packageView(pkg))
			printNextStep("Draw its dependencies", "pkgscan graph "+args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the package as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
