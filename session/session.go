// Package session persists editor state: the annotation list plus enough
// document metadata to restore an editing session later.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/observability"
)

// FormatVersion is bumped when the session file layout changes.
const FormatVersion = 1

// Document is one saved editing session.
type Document struct {
	Name        string
	PageCount   int
	SavedAt     time.Time
	Annotations []annotation.Annotation
}

type fileHeader struct {
	Version     int             `json:"version"`
	Name        string          `json:"name"`
	PageCount   int             `json:"pageCount"`
	SavedAt     time.Time       `json:"savedAt"`
	Annotations json.RawMessage `json:"annotations"`
}

// Codec reads and writes session files.
type Codec struct {
	logger observability.Logger
}

// Option configures a Codec.
type Option func(*Codec)

func WithLogger(l observability.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewCodec(opts ...Option) *Codec {
	c := &Codec{logger: observability.NopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save writes doc as JSON.
func (c *Codec) Save(w io.Writer, doc *Document) error {
	data, err := c.encode(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	c.logger.Debug("session saved",
		observability.String("name", doc.Name),
		observability.Int("annotations", len(doc.Annotations)),
		observability.Int(observability.MetricSessionBytes, len(data)),
	)
	return nil
}

// Load reads a JSON session file.
func (c *Codec) Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("session: read: %w", err)
	}
	return c.decode(data)
}

func (c *Codec) encode(doc *Document) ([]byte, error) {
	annots, err := annotation.MarshalList(doc.Annotations)
	if err != nil {
		return nil, fmt.Errorf("session: encode annotations: %w", err)
	}
	data, err := json.Marshal(fileHeader{
		Version:     FormatVersion,
		Name:        doc.Name,
		PageCount:   doc.PageCount,
		SavedAt:     doc.SavedAt,
		Annotations: annots,
	})
	if err != nil {
		return nil, fmt.Errorf("session: encode: %w", err)
	}
	return data, nil
}

func (c *Codec) decode(data []byte) (*Document, error) {
	var hdr fileHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if hdr.Version > FormatVersion {
		return nil, fmt.Errorf("session: unsupported version %d", hdr.Version)
	}
	var annots []annotation.Annotation
	if len(hdr.Annotations) > 0 {
		var err error
		annots, err = annotation.UnmarshalList(hdr.Annotations)
		if err != nil {
			return nil, fmt.Errorf("session: decode annotations: %w", err)
		}
	}
	return &Document{
		Name:        hdr.Name,
		PageCount:   hdr.PageCount,
		SavedAt:     hdr.SavedAt,
		Annotations: annots,
	}, nil
}
