package assets

// AssetResolver serves assets from an optional --assets directory, using the
// built-in copy for any name that directory does not provide. Invalid names
// and read failures from the directory are returned as-is.
type AssetResolver struct {
	custom   AssetLoader
	embedded AssetLoader
}

// NewAssetResolver builds a resolver over dir. An empty dir means built-in
// assets only.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}
	fs, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.custom = fs
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.lookup(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.lookup(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (r *AssetResolver) lookup(get func(AssetLoader) (string, error)) (string, error) {
	if r.custom != nil {
		content, err := get(r.custom)
		if err == nil || !IsNotFound(err) {
			return content, err
		}
	}
	return get(r.embedded)
}

// HasCustomLoader reports whether an asset directory was configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
