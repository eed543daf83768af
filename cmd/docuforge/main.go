package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docuforge/internal/chat"
	"docuforge/internal/config"
	"docuforge/internal/database"
	"docuforge/internal/events"
	"docuforge/internal/github"
	"docuforge/internal/llm/client"
	"docuforge/internal/llm/tools"
	"docuforge/internal/pipeline"
	repository "docuforge/internal/repositories"
	"docuforge/internal/services"
	"docuforge/internal/utils"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "docuforge",
		Short: "Generate repository documentation through an LLM pipeline",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml")

	root.AddCommand(serveCmd(), generateCmd(), runsCmd(), modelsCmd(), keysCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}

			broadcaster := events.NewBroadcaster()
			events.EnableBroadcastEmitter(broadcaster)

			gateway := chat.NewGateway(app.pipeline, broadcaster)
			mux := http.NewServeMux()
			mux.Handle("/ws", gateway.Handler())

			log.Printf("chat gateway listening on %s", app.cfg.Server.ChatAddr)
			return http.ListenAndServe(app.cfg.Server.ChatAddr, mux)
		},
	}
}

func generateCmd() *cobra.Command {
	var feedback string
	cmd := &cobra.Command{
		Use:   "generate <message>",
		Short: "Run one documentation pipeline from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := buildAppWithFeedback(ctx, feedback)
			if err != nil {
				return err
			}
			events.SetCustomEmitter(func(_ context.Context, _ string, evt events.Event) {
				log.Printf("[%s] %s: %s", evt.Type, evt.Stage, evt.Message)
			})

			rec, err := app.pipeline.Run(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(rec.Report)
			return nil
		},
	}
	cmd.Flags().StringVar(&feedback, "feedback", "", "explicit improvement feedback applied during validation")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded pipeline runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			runs, err := openRunService(cfg)
			if err != nil {
				return err
			}
			rows, err := runs.List(cmd.Context(), limit, 0)
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("%s  %-30s %-12s score=%.2f %s\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.Repository, r.Kind, r.ValidationScore, r.BundleStatus)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to print")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported providers and models",
		RunE: func(*cobra.Command, []string) error {
			providers, err := client.SupportedModels()
			if err != nil {
				return err
			}
			for _, p := range providers {
				fmt.Println(p.Name)
				for _, m := range p.Models {
					fmt.Printf("  %s\n", m)
				}
			}
			return nil
		},
	}
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys in the OS keychain",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <provider> <api-key>",
			Short: "Store an API key for a provider",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return services.NewKeyringService().StoreAPIKey(args[0], []byte(args[1]))
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List providers with a stored key",
			RunE: func(*cobra.Command, []string) error {
				providers, err := services.NewKeyringService().ListProviders()
				if err != nil {
					return err
				}
				for _, p := range providers {
					fmt.Println(p)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <provider>",
			Short: "Remove a provider's stored key",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return services.NewKeyringService().DeleteAPIKey(args[0])
			},
		},
	)
	return cmd
}

type app struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
}

func buildApp(ctx context.Context) (*app, error) {
	return buildAppWithFeedback(ctx, "")
}

func buildAppWithFeedback(ctx context.Context, feedback string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	apiKey, err := resolveAPIKey(cfg)
	if err != nil {
		return nil, err
	}

	gateway, err := client.New(ctx, client.Options{
		Provider: cfg.Provider.Name,
		Model:    cfg.Provider.Model,
		APIKey:   apiKey,
		MaxSteps: cfg.Provider.MaxSteps,
	})
	if err != nil {
		return nil, err
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
		return nil, err
	}

	repoTools, err := tools.RepoTools(source)
	if err != nil {
		return nil, err
	}

	runs, err := openRunService(cfg)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(ctx, pipeline.Config{
		Source:     source,
		Gateway:    gateway,
		Tools:      repoTools,
		OutputRoot: cfg.Output.Root,
		Recorder:   runs,
		Feedback:   feedback,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, pipeline: p}, nil
}

func loadConfig() (*config.Config, error) {
	// .env is optional; a missing file is fine.
	_ = utils.LoadEnv()

	path := configPath
	if path == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(configDir, "docuforge", "config.toml")
		}
	}
	return config.Load(path)
}

// resolveAPIKey honors api_key_source: "env" skips the keychain entirely,
// anything else tries the keychain first with the environment as fallback.
func resolveAPIKey(cfg *config.Config) (string, error) {
	if cfg.Provider.APIKeySource == "env" {
		envName := strings.ToUpper(cfg.Provider.Name) + "_API_KEY"
		if v := os.Getenv(envName); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("%s is not set", envName)
	}
	return services.NewKeyringService().GetAPIKey(cfg.Provider.Name)
}

func openRunService(cfg *config.Config) (services.RunService, error) {
	path := cfg.Database.Path
	if path == "" {
		path = database.GetDefaultDBPath()
	}
	db, err := database.Init(database.Config{Path: path})
	if err != nil {
		return nil, err
	}
	return services.NewRunService(repository.NewRunRepository(db)), nil
}
