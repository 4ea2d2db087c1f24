// Package githubapi wraps the GitHub REST calls the directory needs: reading the
// signed-in profile and opening pull requests against the content repository.
package githubapi

import (
	"aidirectory-backend/config"
	"aidirectory-backend/internal/utils"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// Profile is the subset of the GitHub account stored on our user record.
type Profile struct {
	ID        int64
	Login     string
	Name      string
	AvatarURL string
	Email     string
	Bio       string
}

// FetchProfile loads the account behind an OAuth-authenticated client. When the
// public email is hidden, the primary verified address is used instead.
func FetchProfile(ctx context.Context, httpClient *http.Client) (*Profile, error) {
	return fetchProfile(ctx, github.NewClient(httpClient))
}

func fetchProfile(ctx context.Context, client *github.Client) (*Profile, error) {
	u, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("get github user: %w", err)
	}

	p := &Profile{
		ID:        u.GetID(),
		Login:     u.GetLogin(),
		Name:      u.GetName(),
		AvatarURL: u.GetAvatarURL(),
		Email:     u.GetEmail(),
		Bio:       u.GetBio(),
	}

	if p.Email == "" {
		emails, _, err := client.Users.ListEmails(ctx, nil)
		if err == nil {
			for _, e := range emails {
				if e.GetPrimary() && e.GetVerified() {
					p.Email = e.GetEmail()
					break
				}
			}
		}
	}
	return p, nil
}

// PullRequestInput describes a single-file change proposed on a new branch.
type PullRequestInput struct {
	Branch        string
	Path          string
	Content       []byte
	CommitMessage string
	Title         string
	Body          string
}

type PullRequest struct {
	Number int
	URL    string
	Branch string
}

// PullRequestOpener opens a pull request for a single-file change.
type PullRequestOpener interface {
	OpenPullRequest(ctx context.Context, in PullRequestInput) (*PullRequest, error)
}

// ContentRepo opens pull requests against the repository holding the catalog files.
type ContentRepo struct {
	client     *github.Client
	owner      string
	repo       string
	baseBranch string
}

func NewContentRepo(cfg *config.Config) *ContentRepo {
	client := github.NewClient(utils.NewHTTPClient(30 * time.Second)).WithAuthToken(cfg.GitHubContentToken)
	return newContentRepo(client, cfg.GitHubContentOwner, cfg.GitHubContentRepo, cfg.GitHubContentBaseBranch)
}

func newContentRepo(client *github.Client, owner, repo, baseBranch string) *ContentRepo {
	if baseBranch == "" {
		baseBranch = "main"
	}
	return &ContentRepo{client: client, owner: owner, repo: repo, baseBranch: baseBranch}
}

// withBaseURL points the client at another API root, used against test servers.
func withBaseURL(client *github.Client, raw string) (*github.Client, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u
	return client, nil
}

func (r *ContentRepo) OpenPullRequest(ctx context.Context, in PullRequestInput) (*PullRequest, error) {
	base, _, err := r.client.Git.GetRef(ctx, r.owner, r.repo, "refs/heads/"+r.baseBranch)
	if err != nil {
		return nil, fmt.Errorf("get base branch %s: %w", r.baseBranch, err)
	}

	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + in.Branch),
		Object: &github.GitObject{SHA: base.GetObject().SHA},
	}
	if _, _, err := r.client.Git.CreateRef(ctx, r.owner, r.repo, ref); err != nil {
		return nil, fmt.Errorf("create branch %s: %w", in.Branch, err)
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(in.CommitMessage),
		Content: in.Content,
		Branch:  github.String(in.Branch),
	}
	if _, _, err := r.client.Repositories.CreateFile(ctx, r.owner, r.repo, in.Path, opts); err != nil {
		return nil, r.dropBranch(ctx, in.Branch, fmt.Errorf("create file %s: %w", in.Path, err))
	}

	pr, _, err := r.client.PullRequests.Create(ctx, r.owner, r.repo, &github.NewPullRequest{
		Title:               github.String(in.Title),
		Head:                github.String(in.Branch),
		Base:                github.String(r.baseBranch),
		Body:                github.String(in.Body),
		MaintainerCanModify: github.Bool(true),
	})
	if err != nil {
		return nil, r.dropBranch(ctx, in.Branch, fmt.Errorf("open pull request: %w", err))
	}

	return &PullRequest{Number: pr.GetNumber(), URL: pr.GetHTMLURL(), Branch: in.Branch}, nil
}

// dropBranch deletes a branch created by a failed attempt and returns cause,
// noting when the branch could not be removed.
func (r *ContentRepo) dropBranch(ctx context.Context, branch string, cause error) error {
	if _, err := r.client.Git.DeleteRef(context.WithoutCancel(ctx), r.owner, r.repo, "heads/"+branch); err != nil {
		return fmt.Errorf("%w (branch %s not deleted: %v)", cause, branch, err)
	}
	return cause
}
