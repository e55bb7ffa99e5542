package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/starfollow/starfollow/internal/core"
)

// DefaultPageSize is the fixed stargazer page size.
const DefaultPageSize = 100

// StargazerPager fetches one page of a repository's stargazers per call.
// The sequence is forward-only and non-restartable: the page counter lives
// with the caller, so a run can start at an explicit page.
type StargazerPager struct {
	Client   *Client
	Owner    string
	Repo     string
	PageSize int
}

// NextPage fetches exactly one page. An empty slice means pagination is
// exhausted.
func (p *StargazerPager) NextPage(ctx context.Context, page int) ([]core.Identity, error) {
	if p == nil || p.Client == nil {
		return nil, errors.New("stargazer pager is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	owner := strings.TrimSpace(p.Owner)
	repo := strings.TrimSpace(p.Repo)
	if owner == "" || repo == "" {
		return nil, errors.New("owner and repo are required")
	}
	if page < 1 {
		page = 1
	}

	size := p.PageSize
	if size < 1 || size > DefaultPageSize {
		size = DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(size))

	path := fmt.Sprintf("/repos/%s/%s/stargazers", url.PathEscape(owner), url.PathEscape(repo))
	req, err := p.Client.newRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode below
	case http.StatusNotFound:
		return nil, fmt.Errorf("repository %s/%s not found", owner, repo)
	default:
		message, _ := apiError(resp)
		if message == "" {
			message = "unexpected stargazers response"
		}
		return nil, fmt.Errorf("%s (status %d)", message, resp.StatusCode)
	}

	var payload []struct {
		Login string `json:"login"`
		ID    int64  `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode stargazers page: %w", err)
	}

	identities := make([]core.Identity, 0, len(payload))
	for _, entry := range payload {
		if strings.TrimSpace(entry.Login) == "" {
			continue
		}
		identities = append(identities, core.Identity{Login: entry.Login, ID: entry.ID})
	}
	return identities, nil
}
