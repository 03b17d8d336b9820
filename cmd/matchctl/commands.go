package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bokk3/dating-app/internal/config"
	"github.com/bokk3/dating-app/internal/infra/migrator"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	statssvc "github.com/bokk3/dating-app/internal/services/stats"
)

type cli struct {
	cfgPath string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Operate the matching engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}

	defaultPath := os.Getenv("APP_CONFIG")
	if defaultPath == "" {
		defaultPath = "configs/config.yaml"
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", defaultPath, "path to the YAML config")

	root.AddCommand(c.migrateCmd(), c.statsCmd(), c.tokenCmd())
	return root
}

func (c *cli) migrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withMigrator(func(m *migrator.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (all of them when --steps is 0)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must not be negative")
			}
			return c.withMigrator(func(m *migrator.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}

func (c *cli) withMigrator(fn func(*migrator.Migrator) error) error {
	m, err := migrator.New(c.cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()
	return fn(m)
}

func printVersion(cmd *cobra.Command, m *migrator.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%v)\n", version, dirty)
	return nil
}

func (c *cli) statsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print match and judgment totals as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := pgrepo.NewPool(ctx, c.cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			out, err := statssvc.NewService(pgrepo.NewStatsRepo(pool)).Engine(ctx, days)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "trailing window for judgment activity")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	var (
		userID int64
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			manager := authsvc.NewJWTManager(c.cfg.Auth.JWTSecret, c.cfg.Auth.JWTAccessTTL)
			token, expiresAt, err := manager.Issue(userID, uuid.NewString(), role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "account id to put in the token")
	cmd.Flags().StringVar(&role, "role", "user", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.jwt_access_ttl)")
	return cmd
}
