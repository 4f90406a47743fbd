package reposync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/kernelforge/kernel/internal/stage"
)

// syncStage clones cfg.Destination from cfg.URL if it does not yet exist,
// otherwise fetches and (if cfg.Branch is set) checks that branch out.
type syncStage struct {
	cfg Config
}

var _ stage.Stage = (*syncStage)(nil)

func (s *syncStage) ID() string { return StageID }

func (s *syncStage) DryRunDescription(ctx *stage.Context) string {
	if _, err := os.Stat(s.cfg.Destination); os.IsNotExist(err) {
		return fmt.Sprintf("would clone %s into %s", s.cfg.URL, s.cfg.Destination)
	}
	return fmt.Sprintf("would fetch %s in %s", s.cfg.URL, s.cfg.Destination)
}

func (s *syncStage) Execute(ctx context.Context, stageCtx *stage.Context) error {
	if _, err := os.Stat(s.cfg.Destination); os.IsNotExist(err) {
		return s.clone(ctx)
	} else if err != nil {
		return fmt.Errorf("reposync: stat destination: %w", err)
	}
	return s.fetchAndCheckout(ctx)
}

func (s *syncStage) clone(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.cfg.Destination), 0o755); err != nil {
		return fmt.Errorf("reposync: create parent directory: %w", err)
	}

	opts := &git.CloneOptions{URL: s.cfg.URL}
	if s.cfg.Depth > 0 {
		opts.Depth = s.cfg.Depth
	}
	if s.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.cfg.Branch)
		opts.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, s.cfg.Destination, false, opts); err != nil {
		return fmt.Errorf("reposync: clone %s: %w", s.cfg.URL, err)
	}
	return nil
}

func (s *syncStage) fetchAndCheckout(ctx context.Context) error {
	repo, err := git.PlainOpen(s.cfg.Destination)
	if err != nil {
		return fmt.Errorf("reposync: open %s: %w", s.cfg.Destination, err)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("reposync: fetch: %w", err)
	}

	if s.cfg.Branch == "" {
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("reposync: worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(s.cfg.Branch)}); err != nil {
		return fmt.Errorf("reposync: checkout %s: %w", s.cfg.Branch, err)
	}
	return nil
}
