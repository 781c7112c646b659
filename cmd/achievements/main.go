package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marek-cottingham/steam-api-token-gen-backend/config"
	"github.com/marek-cottingham/steam-api-token-gen-backend/logging"
	"github.com/marek-cottingham/steam-api-token-gen-backend/services"
	"github.com/marek-cottingham/steam-api-token-gen-backend/steam"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:          "achievements",
		Short:        "Steam achievement aggregator tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default config.yaml, then config.template.yaml)")

	root.AddCommand(newLookupCmd(&cfgFile))
	root.AddCommand(newConfigCmd(&cfgFile))
	return root
}

func newLookupCmd(cfgFile *string) *cobra.Command {
	var name, id string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print the unlocked achievements of a Steam user as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, false)
			if cfg.LogLevel == "info" {
				log.SetLevel(logrus.WarnLevel)
			}

			client, err := steam.New(steam.Config{
				BaseURL:  cfg.SteamBaseURL,
				APIKey:   cfg.SteamAPIKey,
				Language: cfg.SteamLanguage,
				Timeout:  cfg.SteamHTTPTimeout,
				Logger:   log,
			})
			if err != nil {
				return err
			}

			list, err := services.NewAggregator(client, log).Aggregate(context.Background(), name, id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(list)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "vanity name of the user")
	cmd.Flags().StringVar(&id, "id", "", "steam id of the user (takes precedence over --name)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func newConfigCmd(cfgFile *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	cfgTest := &cobra.Command{
		Use:   "test",
		Short: "Validate and print effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file:   %s\n", orNone(cfg.ConfigFile))
			fmt.Fprintf(out, "steam api:     %s\n", cfg.SteamBaseURL)
			fmt.Fprintf(out, "language:      %s\n", cfg.SteamLanguage)
			fmt.Fprintf(out, "port:          %s\n", cfg.Port)
			fmt.Fprintf(out, "environment:   %s\n", cfg.AppEnv)
			fmt.Fprintf(out, "rate limit:    %v (%.1f rps, burst %d)\n", cfg.RateLimitEnabled, cfg.RateLimitRPS, cfg.RateLimitBurst)
			fmt.Fprintln(out, "config OK")
			return nil
		},
	}
	cfgCmd.AddCommand(cfgTest)
	return cfgCmd
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
