package cmd

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/starfollow/starfollow/internal/config"
	"github.com/starfollow/starfollow/internal/github"
	"github.com/starfollow/starfollow/internal/ui"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Validate the credential and show account, scopes, and quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token, err := github.FindToken()
		if err != nil {
			return err
		}

		client := &github.Client{
			BaseURL:     cfg.GitHub.BaseURL,
			Token:       token.Token,
			HTTPClient:  &http.Client{Timeout: cfg.GitHub.Timeout},
			UserAgent:   cfg.GitHub.UserAgent,
			ToolVersion: versionInfo.Version,
		}

		viewer, err := client.Viewer(cmd.Context())
		if err != nil {
			return err
		}

		ui.Success("authenticated as %s", ui.Bold(viewer.Login))
		ui.Info("token source: %s", ui.Dim(token.Source))
		if viewer.ScopesKnown {
			ui.Info("granted scopes: %s", strings.Join(viewer.Scopes, ", "))
			if viewer.HasScope(github.FollowScope) {
				ui.Success("credential can follow users")
			} else {
				ui.Fail("credential lacks the %s scope", github.FollowScope)
			}
		} else {
			ui.Info("fine-grained token: scopes are checked per call")
		}
		ui.Info("quota %d/%d, resets %s", viewer.Quota.Remaining, viewer.Quota.Limit, viewer.Quota.ResetAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
