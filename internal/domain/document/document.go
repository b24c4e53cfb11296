// Package document holds document metadata as seen by the result assembler.
package document

import "time"

// Document is read-only document metadata.
type Document struct {
	id        string
	name      string
	summary   string
	category  string
	tags      []string
	createdAt time.Time
}

// New creates document metadata.
func New(id, name, summary, category string, tags []string, createdAt time.Time) Document {
	return Document{
		id: id, name: name, summary: summary,
		category: category, tags: tags, createdAt: createdAt,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Name returns the display name.
func (d *Document) Name() string { return d.name }

// Summary returns the document summary.
func (d *Document) Summary() string { return d.summary }

// Category returns the document category.
func (d *Document) Category() string { return d.category }

// Tags returns the document tags.
func (d *Document) Tags() []string { return d.tags }

// CreatedAt returns the creation time.
func (d *Document) CreatedAt() time.Time { return d.createdAt }
