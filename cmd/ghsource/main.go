package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"docuforge/internal/config"
	"docuforge/internal/github"
	"docuforge/internal/utils"
)

// ghsource serves the repository data source as standalone JSON tool routes
// so agent runtimes outside this process can call the same operations the
// in-process tool layer uses.
func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "ghsource",
		Short: "Serve GitHub repository data as JSON tool routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = utils.LoadEnv()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			token := cfg.GitHub.Token
			if token == "" {
				token = os.Getenv("GITHUB_TOKEN")
			}
			source, err := github.NewClient(github.ClientOptions{
				Token:     token,
				BaseURL:   cfg.GitHub.BaseURL,
				CacheSize: cfg.GitHub.CacheSize,
				LocalRoot: cfg.GitHub.LocalRoot,
			})
			if err != nil {
				return err
			}

			log.Printf("tool server listening on %s", cfg.Server.ToolAddr)
			return http.ListenAndServe(cfg.Server.ToolAddr, github.NewServer(source))
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to config.toml")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
