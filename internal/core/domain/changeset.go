package domain

// ChangeKind classifies an article against the prior snapshot.
type ChangeKind int

const (
	// ChangeNew indicates the article was absent from the prior snapshot.
	ChangeNew ChangeKind = iota

	// ChangeUpdated indicates the article's fingerprint differs.
	ChangeUpdated

	// ChangeUnchanged indicates the article's fingerprint matches.
	ChangeUnchanged
)

// String returns the display label for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeNew:
		return "NEW"
	case ChangeUpdated:
		return "UPDATED"
	case ChangeUnchanged:
		return "UNCHANGED"
	default:
		return "UNKNOWN"
	}
}

// Change pairs a source article with its normalised form.
type Change struct {
	Kind       ChangeKind
	Article    Article
	Normalised NormalisedArticle
}

// ChangeSet is the total, disjoint partition of the considered articles.
// Each bucket preserves source order.
type ChangeSet struct {
	New       []Change
	Updated   []Change
	Unchanged []Change
}

// Len returns the number of articles across all buckets.
func (c ChangeSet) Len() int {
	return len(c.New) + len(c.Updated) + len(c.Unchanged)
}

// HasChanges reports whether any article is new or updated.
func (c ChangeSet) HasChanges() bool {
	return len(c.New) > 0 || len(c.Updated) > 0
}

// Changed returns the normalised NEW articles followed by the UPDATED ones.
func (c ChangeSet) Changed() []NormalisedArticle {
	out := make([]NormalisedArticle, 0, len(c.New)+len(c.Updated))
	for _, ch := range c.New {
		out = append(out, ch.Normalised)
	}
	for _, ch := range c.Updated {
		out = append(out, ch.Normalised)
	}
	return out
}
