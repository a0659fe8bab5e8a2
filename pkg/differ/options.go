package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithIgnoredAttributes sets attribute paths to ignore during comparison
func WithIgnoredAttributes(paths ...string) Option {
	return func(d *differ) {
		for _, path := range paths {
			d.ignoreAttrs[path] = true
		}
	}
}

// WithDeepComparison enables/disables comparison of layout attributes
// (width, editable, visible, sortable, searchable)
func WithDeepComparison(enabled bool) Option {
	return func(d *differ) {
		d.deepComparison = enabled
	}
}
