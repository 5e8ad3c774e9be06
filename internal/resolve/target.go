package resolve

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type targetKind int

const (
	targetCommand targetKind = iota
	targetRelative
	targetAbsolute
	targetRemote
)

// location is what a target points to. Exactly one of command, path or
// remote is meaningful, selected by kind.
type location struct {
	kind    targetKind
	command string
	path    string
	remote  *url.URL
}

// meta is carried unchanged through every stage.
type meta struct {
	url      *url.URL
	context  Context
	resolver *Resolver
}

// Target is an include target before canonicalization.
type Target struct {
	loc  location
	meta meta
}

// Canonical is a target whose local path has been made absolute and
// symlink-free. It cannot be read until its access is checked.
type Canonical struct {
	loc  location
	meta meta
}

// Checked is a target the including document is allowed to read.
// It is the only stage that can be turned into an Include.
type Checked struct {
	loc  location
	meta meta
}

// NewTarget parses ref relative to ctx.
func (r *Resolver) NewTarget(ctx Context, ref string) (Target, error) {
	if name, ok := commandRef(ref); ok {
		return Target{
			loc:  location{kind: targetCommand, command: name},
			meta: meta{url: ctx.URL(), context: ctx, resolver: r},
		}, nil
	}

	u, err := ctx.url.Parse(ref)
	if err != nil {
		return Target{}, newError(ErrMalformed, "couldn't resolve file",
			"tried to resolve "+ref, "malformed reference: "+err.Error())
	}

	var loc location
	switch u.Scheme {
	case documentScheme:
		if u.Host != documentHost {
			return Target{}, newError(ErrMalformed, "unknown document host "+u.Host)
		}
		loc = location{kind: targetRelative, path: strings.TrimPrefix(u.Path, "/")}
	case "file":
		if u.Host != "" && u.Host != "localhost" {
			return Target{}, newError(ErrMalformed, "error converting url to path",
				"the file url can't be converted to a path",
				"this could be due to a malformed URL like a non-empty or non-localhost domain")
		}
		loc = location{kind: targetAbsolute, path: filepath.FromSlash(u.Path)}
	case "http", "https":
		loc = location{kind: targetRemote, remote: u}
	default:
		return Target{}, newError(ErrMalformed, "unsupported url scheme "+u.Scheme)
	}

	return Target{loc: loc, meta: meta{url: u, context: ctx, resolver: r}}, nil
}

// commandRef recognizes the `//name` command syntax.
func commandRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "//") {
		return "", false
	}
	name := ref[2:]
	if name == "" || strings.ContainsAny(name, "/.:?#") {
		return "", false
	}
	return name, true
}

// Canonicalize resolves local paths to absolute, symlink-free paths.
func (t Target) Canonicalize() (Canonical, error) {
	loc := t.loc
	switch loc.kind {
	case targetRelative:
		p, err := canonicalize(filepath.Join(t.meta.resolver.root, filepath.FromSlash(loc.path)))
		if err != nil {
			return Canonical{}, err
		}
		loc.path = p
	case targetAbsolute:
		p, err := canonicalize(loc.path)
		if err != nil {
			return Canonical{}, err
		}
		loc.path = p
	}
	return Canonical{loc: loc, meta: t.meta}, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err == nil {
		abs, err = filepath.EvalSymlinks(abs)
	}
	if err != nil {
		kind := ErrMalformed
		if os.IsNotExist(err) {
			kind = ErrNotFound
		}
		return "", newError(kind, "error canonicalizing path",
			"canonicalizing the path: "+path, err.Error())
	}
	return abs, nil
}

// CheckAccess verifies that the including context may read the target.
//
//	context \ target  command  relative  absolute   remote
//	relative          yes      yes       if allowed yes
//	absolute          yes      no        if allowed no
//	remote            no       no        if allowed same domain
func (c Canonical) CheckAccess() (Checked, error) {
	r := c.meta.resolver
	ctxKind := c.meta.context.Kind()

	switch c.loc.kind {
	case targetAbsolute:
		if !r.perms.IsAllowedAbsolute(c.loc.path) {
			return Checked{}, newError(ErrPermission, "permission denied",
				"not allowed to access absolute path "+c.loc.path)
		}
	case targetCommand:
		if ctxKind == Remote {
			return Checked{}, newError(ErrPermission, "permission denied",
				"remote file can only include other remote content")
		}
	case targetRelative:
		if ctxKind != LocalRelative {
			return Checked{}, newError(ErrPermission, "permission denied",
				ctxKind.String()+" document not allowed to access local relative files")
		}
		if !within(r.root, c.loc.path) {
			return Checked{}, newError(ErrPathOutsideRoot, "permission denied",
				"path "+c.loc.path+" escapes the project root")
		}
	case targetRemote:
		switch ctxKind {
		case LocalAbsolute:
			return Checked{}, newError(ErrPermission, "permission denied",
				"local absolute path not allowed to access remote files")
		case Remote:
			if c.meta.context.url.Hostname() != c.loc.remote.Hostname() {
				return Checked{}, newError(ErrPermission, "permission denied",
					"remote inclusions can only include remote content from the same domain")
			}
		}
	}
	return Checked{loc: c.loc, meta: c.meta}, nil
}

// Include turns the checked target into an Include, downloading remote
// content into the cache.
func (c Checked) Include(ctx context.Context) (Include, error) {
	switch c.loc.kind {
	case targetCommand:
		cmd, err := ParseCommand(c.loc.command)
		if err != nil {
			return nil, err
		}
		return CommandInclude{Command: cmd}, nil
	case targetRelative, targetAbsolute:
		return includeForPath(c.loc.path, fromURL(c.meta.url))
	case targetRemote:
		remote := c.meta.resolver.remote
		if remote == nil {
			return nil, newError(ErrRemoteDisabled, "remote includes are disabled",
				"enable resolve.allowRemote to download "+c.loc.remote.String())
		}
		dl, err := remote.Fetch(ctx, c.loc.remote)
		if err != nil {
			return nil, err
		}
		next := fromURL(c.meta.url)
		switch dl.Type {
		case TypeImage:
			return Image{Path: dl.Path}, nil
		case TypeSvg:
			return Svg{Path: dl.Path}, nil
		case TypeMarkdown:
			return Markdown{Path: dl.Path, Context: next}, nil
		case TypePDF:
			return PDF{Path: dl.Path}, nil
		default:
			return includeForPath(dl.Path, next)
		}
	}
	return nil, newError(ErrMalformed, "unresolvable target")
}

// within reports whether path is root or inside root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
