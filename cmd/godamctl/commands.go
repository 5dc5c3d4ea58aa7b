package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"godam/frontend/deliveryNotes/printing"
	"godam/frontend/login"
	orderprogress "godam/frontend/orders/progress"
	"godam/infrastructure/backend"
	"godam/infrastructure/config"
	"godam/infrastructure/logger"
	"godam/infrastructure/rbac"
	"godam/infrastructure/sqlite"
)

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "godamctl",
		Short:         "Maintenance commands for the GoDam dispatch console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	loadConfig := func() (config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		slog.SetDefault(logger.New(cfg.App.Env))
		return cfg, nil
	}

	root.AddCommand(
		newMigrateCmd(loadConfig),
		newSeedUserCmd(loadConfig),
		newRenderCmd(loadConfig),
		newClassifyCmd(),
	)
	return root
}

func openDB(ctx context.Context, cfg config.Config) (*sqlite.DB, error) {
	db, err := sqlite.OpenDB(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.ApplyMigrations(ctx, db, cfg.SQLite.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newMigrateCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s\n", cfg.SQLite.Path)
			return nil
		},
	}
}

func newSeedUserCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var username, role string
	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a console user or reset its password",
		Long:  "The password is read from GODAM_SEED_PASSWORD.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv("GODAM_SEED_PASSWORD")
			if strings.TrimSpace(password) == "" {
				return errors.New("GODAM_SEED_PASSWORD is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := login.UpsertUserPasswordHash(cmd.Context(), db, username, role, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s user (username=%s)\n", role, username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "login name")
	cmd.Flags().StringVar(&role, "role", rbac.RoleAdmin, "admin or dispatcher")
	return cmd
}

func newRenderCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var draftPath, out, preparedBy string
	var noteID int64
	cmd := &cobra.Command{
		Use:   "render-dn",
		Short: "Render a delivery note to PDF from a draft file or a stored note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (draftPath == "") == (noteID <= 0) {
				return errors.New("exactly one of --draft or --note is required")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if preparedBy == "" {
				preparedBy = cfg.Print.PreparedByFallback
			}

			var partial printing.TemplatePayload
			if draftPath != "" {
				raw, err := os.ReadFile(draftPath)
				if err != nil {
					return fmt.Errorf("read draft: %w", err)
				}
				draft, err := printing.StaticDraft(raw).LoadDraft()
				if err != nil {
					return fmt.Errorf("decode draft: %w", err)
				}
				partial = printing.FromDraftPreview(draft, preparedBy)
			} else {
				api, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout)
				if err != nil {
					return err
				}
				note, err := api.GetDeliveryNote(cmd.Context(), noteID)
				if err != nil {
					return fmt.Errorf("load delivery note %d: %w", noteID, err)
				}
				partial = printing.FromPersistedRecord(note, preparedBy)
			}

			payload := printing.Merge(printing.BasePayload(preparedBy, time.Now(), time.Local), partial)
			pdf, err := printing.RenderDeliveryNotePDF(payload)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVar(&draftPath, "draft", "", "draft preview JSON file")
	cmd.Flags().Int64Var(&noteID, "note", 0, "stored delivery note id")
	cmd.Flags().StringVar(&out, "out", "delivery-note.pdf", "output PDF path")
	cmd.Flags().StringVar(&preparedBy, "prepared-by", "", "name printed as preparer")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify CODE...",
		Short: "Show the picking stage of movement codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range args {
				stage := orderprogress.ClassifyStage(code)
				known := ""
				if !orderprogress.KnownMovementCode(code) {
					known = " (unknown code)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s%s\n", code, stage, orderprogress.StageName(stage), known)
			}
			return nil
		},
	}
}
