package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/feed"
	"smartwaste-dashboard/internal/geo"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/session"
	"smartwaste-dashboard/internal/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive admin console.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, store, err := signedIn(cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
				return err
			}
			logFile, err := tea.LogToFile(cfg.LogFile, "dashboard")
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			role, err := viewerRole(ctx, client)
			if err != nil {
				if api.IsUnauthorized(err) {
					_ = store.Clear()
					return fmt.Errorf("session expired; run `dashboard login` again")
				}
				return err
			}
			if role != models.RoleAdmin {
				log.Printf("⚠️ [UI] signed in as %s; admin actions may be refused", role.Label())
			}

			if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
				return err
			}
			cache := geo.NewRouteCache(256, time.Hour)
			defer cache.Close()
			planner := geo.NewDirections(cfg.GoogleMapsAPIKey, geo.WithCache(cache))

			m := tui.New(ctx, client, role,
				tui.WithPlanner(planner),
				tui.WithExportDir(cfg.ExportDir),
				tui.WithNarrowWidth(cfg.NarrowWidth),
			)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

			go func() {
				if err := feed.New(cfg.WSURL, client.Token()).Run(ctx, p.Send); err != nil {
					log.Printf("❌ [UI] bin-status feed stopped: %v", err)
				}
			}()

			if _, err := p.Run(); err != nil && err != tea.ErrProgramKilled {
				return err
			}
			if m.Expired() {
				if err := store.Clear(); err != nil {
					return err
				}
				return fmt.Errorf("session expired; run `dashboard login` again")
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

// viewerRole asks the backend who is signed in and falls back to the token
// claims when the profile cannot be loaded.
func viewerRole(ctx context.Context, c *api.Client) (models.Role, error) {
	pctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	profile, err := c.Profile(pctx)
	if err == nil && profile.Role != "" {
		return profile.Role, nil
	}
	if api.IsUnauthorized(err) {
		return "", err
	}
	if err != nil {
		log.Printf("⚠️ [UI] profile unavailable, reading role from token: %v", err)
	}
	v, verr := session.ViewerFromToken(c.Token())
	if verr != nil {
		return "", verr
	}
	return v.Role, nil
}
