package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starfollow/starfollow/internal/config"
	"github.com/starfollow/starfollow/internal/core"
	"github.com/starfollow/starfollow/internal/core/engine"
	"github.com/starfollow/starfollow/internal/github"
	"github.com/starfollow/starfollow/internal/observability"
	"github.com/starfollow/starfollow/internal/output"
	"github.com/starfollow/starfollow/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run [owner] [repo]",
	Short: "Follow every stargazer of a repository",
	Long: `Follow every stargazer of a repository, one page at a time, pausing
between attempts and waiting out rate limit windows reported by the API.
Missing arguments are prompted for interactively.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("page", 1, "Stargazer page to start from")
	runCmd.Flags().Int("max-pages", 0, "Maximum pages to process (0 = all)")
	runCmd.Flags().String("output", "table", "Output format: table, json")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	startPage, err := cmd.Flags().GetInt("page")
	if err != nil {
		return err
	}
	maxPages, err := cmd.Flags().GetInt("max-pages")
	if err != nil {
		return err
	}
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	owner, repo := resolveTarget(args)
	if owner == "" || repo == "" {
		return errors.New("repository owner and name are required")
	}
	if startPage < 1 {
		startPage = ui.AskInt("Start page", 1)
	}

	ctx := cmd.Context()
	startedAt := time.Now()

	token, err := github.FindToken()
	if err != nil {
		return &core.FatalCredentialError{Reason: err.Error()}
	}

	client := &github.Client{
		BaseURL:     cfg.GitHub.BaseURL,
		Token:       token.Token,
		HTTPClient:  &http.Client{Timeout: cfg.GitHub.Timeout},
		UserAgent:   cfg.GitHub.UserAgent,
		ToolVersion: versionInfo.Version,
	}

	// Fail fast before the loop when the credential cannot follow anyone.
	viewer, err := client.Viewer(ctx)
	if err != nil {
		return err
	}
	if viewer.ScopesKnown && !viewer.HasScope(github.FollowScope) {
		return &core.FatalCredentialError{
			Reason:        fmt.Sprintf("token from %s cannot follow users", token.Source),
			MissingScopes: []string{github.FollowScope},
		}
	}

	ui.Success("authenticated as %s %s", ui.Bold(viewer.Login), ui.Dim("(token from "+token.Source+")"))
	ui.Info("quota %d/%d, resets %s", viewer.Quota.Remaining, viewer.Quota.Limit, viewer.Quota.ResetAt.Format(time.RFC3339))
	ui.Info("following stargazers of %s starting at page %d", ui.Bold(owner+"/"+repo), startPage)

	runner := &engine.Runner{
		Pager: &github.StargazerPager{
			Client:   client,
			Owner:    owner,
			Repo:     repo,
			PageSize: cfg.Pager.PageSize,
		},
		Executor: &engine.Executor{
			Limiter:  engine.NewBucket(cfg.Bucket.Capacity, cfg.Bucket.RefillWindow),
			Follower: client,
		},
		Pacing: engine.Pacing{
			SuccessPause: cfg.Pacing.SuccessPause,
			FailurePause: cfg.Pacing.FailurePause,
			ResetMargin:  cfg.Pacing.ResetMargin,
		},
		GrantedScopes: viewer.Scopes,
		ScopesKnown:   viewer.ScopesKnown,
		MaxPages:      maxPages,
		OnAttempt:     logAttempt,
	}

	summary, runErr := runner.Run(ctx, owner, repo, startPage)

	if summary != nil && len(summary.Attempts) > 0 {
		ui.BlankLine()
		formatter := output.NewFormatter(format)
		rendered, err := formatter.FormatSummary(summary)
		if err != nil {
			return err
		}
		if rendered != "" {
			fmt.Println(rendered)
		}
		if format != output.FormatJSON {
			logThroughput(len(summary.Attempts), startedAt)
		}
	} else if runErr == nil {
		ui.Warn("no stargazers found on page %d of %s/%s", startPage, owner, repo)
	}

	return runErr
}

// resolveTarget takes owner/repo from args, prompting for whatever is missing.
func resolveTarget(args []string) (owner, repo string) {
	if len(args) > 0 {
		owner = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		repo = strings.TrimSpace(args[1])
	}
	if owner == "" {
		owner = ui.AskString("Repository owner")
	}
	if repo == "" {
		repo = ui.AskString("Repository name")
	}
	return owner, repo
}

// logAttempt emits one structured line per classified outcome.
func logAttempt(outcome *core.Outcome) {
	if outcome == nil || observability.CLILogger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("login", outcome.Identity.Login),
		zap.String("outcome", outcome.Kind.String()),
		zap.Int("status", outcome.StatusCode),
		zap.String("attempt_id", outcome.Provenance.AttemptID),
	}
	if outcome.Quota != nil {
		fields = append(fields,
			zap.Int("quota_remaining", outcome.Quota.Remaining),
			zap.Int("quota_limit", outcome.Quota.Limit),
			zap.Time("quota_reset", outcome.Quota.ResetAt),
		)
	}

	switch outcome.Kind {
	case core.OutcomeSucceeded:
		observability.CLILogger.Info("Followed stargazer", fields...)
	case core.OutcomeRateLimited:
		fields = append(fields, zap.Duration("retry_after", outcome.RetryAfter))
		observability.CLILogger.Warn("Rate limited, waiting out window", fields...)
	case core.OutcomePermissionDenied:
		fields = append(fields, zap.String("message", outcome.Message))
		if outcome.DocumentationURL != "" {
			fields = append(fields, zap.String("documentation", outcome.DocumentationURL))
		}
		observability.CLILogger.Warn("Follow denied", fields...)
	default:
		fields = append(fields, zap.String("message", outcome.Message))
		observability.CLILogger.Warn("Follow failed", fields...)
	}
}

func logThroughput(count int, startedAt time.Time) {
	if count <= 0 || observability.CLILogger == nil {
		return
	}
	elapsed := time.Since(startedAt)
	if elapsed <= 0 {
		return
	}
	rate := float64(count) / elapsed.Seconds()
	observability.CLILogger.Info(
		"Run throughput",
		zap.Int("attempts", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate),
	)
}
