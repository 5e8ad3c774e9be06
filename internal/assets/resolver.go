package assets

import "errors"

// AssetResolver looks up assets in a user directory first and falls back
// to the embedded ones when the name is unknown there.
type AssetResolver struct {
	custom   AssetLoader // nil without a user directory
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath
// means embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	custom, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = custom
	return r, nil
}

// LoadStyle loads a preamble style.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return fallback(r, func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplateSet loads a set of title pages.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return fallback(r, func(l AssetLoader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

// fallback runs load on the user loader, then on the embedded one if the
// asset was not found. Invalid names and read errors do not fall back.
func fallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom != nil {
		v, err := load(r.custom)
		if err == nil || !isNotFoundError(err) {
			return v, err
		}
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateSetNotFound)
}

// HasCustomLoader reports whether a user directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
