package datatree

// PruneOption configures Prune.
type PruneOption func(*pruneConfig)

type pruneConfig struct {
	emptyStrings bool
}

// WithEmptyStrings makes Prune also delete entries whose value is "".
func WithEmptyStrings() PruneOption {
	return func(c *pruneConfig) { c.emptyStrings = true }
}

// Prune deletes every entry whose value is an empty mapping, recursing into
// non-empty mappings first. A deletion can leave a parent empty, so the whole
// pass repeats until it deletes nothing. The tree is mutated and returned.
func Prune(t *Tree, opts ...PruneOption) *Tree {
	if t == nil {
		return nil
	}
	var cfg pruneConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	for prunePass(t, &cfg) {
	}
	return t
}

// prunePass runs one pass and reports whether it deleted anything.
func prunePass(t *Tree, cfg *pruneConfig) bool {
	var empty []string
	deleted := false

	t.Each(func(key string, value any) {
		switch v := value.(type) {
		case *Tree:
			if v.Len() == 0 {
				empty = append(empty, key)
				return
			}
			if prunePass(v, cfg) {
				deleted = true
			}
		case string:
			if cfg.emptyStrings && v == "" {
				empty = append(empty, key)
			}
		}
	})

	for _, key := range empty {
		t.Delete(key)
	}
	return deleted || len(empty) > 0
}
