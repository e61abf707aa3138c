package domain

import "time"

// Article is a help-center document as returned by the source feed.
// It is immutable per fetch; identity is ID.
type Article struct {
	// ID is the opaque source identifier.
	ID string

	// Title is the human-readable title.
	Title string

	// Body is the raw markup body.
	Body string

	// URL is the public location of the article.
	URL string

	// UpdatedAt is the source's last-modified timestamp.
	UpdatedAt time.Time
}

// NormalisedArticle is the canonical form of an Article.
// It is derived deterministically: the same Article always yields the
// same NormalisedArticle.
type NormalisedArticle struct {
	// ArticleID links back to the source Article.
	ArticleID string

	// Title is carried over for display and remote file naming.
	Title string

	// Slug is the url-safe, length-capped name derived from the title.
	// Two titles may collapse to the same slug.
	Slug string

	// Text is the canonical text representation.
	Text string

	// Fingerprint is the hex-encoded SHA-256 of Text.
	Fingerprint string

	// UpdatedAt is the source's last-modified timestamp.
	UpdatedAt time.Time
}

// Filename returns the archive and upload file name for the article.
func (n NormalisedArticle) Filename() string {
	return n.Slug + ".md"
}
