package cmd

import (
	"fmt"

	"github.com/nikogura/resume-optimizer/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a default config file at $HOME/.resume-optimizer/config.json (or --config).

Edit the file to add an API key, or set OPENAI_API_KEY / ANTHROPIC_API_KEY in the
environment or a .env file instead.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	path := getConfigFile()
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	err = config.InitConfig(path)
	if err != nil {
		return err
	}

	printDone("Created config file: %s", path)
	fmt.Println("Add your API key, then run 'resume-optimizer serve' or 'resume-optimizer optimize'.")
	return err
}
