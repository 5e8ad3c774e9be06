// Package resolve maps include targets found in documents to concrete local
// resources under a security policy.
//
// Resolution is a one-way pipeline of distinct types:
//
//	Target ──Canonicalize──▶ Canonical ──CheckAccess──▶ Checked ──Include──▶ Include
//
// Only a Checked target can produce an Include, so an unchecked target can
// never be read.
package resolve

import (
	"context"
	"fmt"
	"path/filepath"
)

// Permissions controls access to files outside the project root.
type Permissions struct {
	allowAll bool
	dirs     []string
}

// AllowAllAbsolute permits every absolute path.
func (p *Permissions) AllowAllAbsolute() {
	p.allowAll = true
}

// AllowAbsolute permits paths inside dir. Relative dirs are made absolute.
func (p *Permissions) AllowAbsolute(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("allowing %q: %w", dir, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	p.dirs = append(p.dirs, abs)
	return nil
}

// IsAllowedAbsolute reports whether path may be read.
func (p *Permissions) IsAllowedAbsolute(path string) bool {
	if p.allowAll {
		return true
	}
	for _, dir := range p.dirs {
		if within(dir, path) {
			return true
		}
	}
	return false
}

// Resolver resolves include targets for one project.
type Resolver struct {
	root   string
	perms  Permissions
	remote *Fetcher
}

// New creates a Resolver for the project rooted at root.
// A nil fetcher disables remote includes.
func New(root string, perms Permissions, fetcher *Fetcher) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return &Resolver{root: abs, perms: perms, remote: fetcher}, nil
}

// Root returns the canonical project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve runs the full pipeline for ref found in a document at base.
func (r *Resolver) Resolve(ctx context.Context, base Context, ref string) (Include, error) {
	target, err := r.NewTarget(base, ref)
	if err != nil {
		return nil, err
	}
	canonical, err := target.Canonicalize()
	if err != nil {
		return nil, err
	}
	checked, err := canonical.CheckAccess()
	if err != nil {
		return nil, err
	}
	return checked.Include(ctx)
}
