package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the aggregate root: every catalog collection plus settings.
// It is always read and written as a whole.
type Document struct {
	Categories []Category `json:"categories"`
	Playlists  []Playlist `json:"playlists"`
	Videos     []Video    `json:"videos"`
	Settings   Settings   `json:"settings"`
}

// NewDocument returns an empty document with default settings.
func NewDocument() *Document {
	doc := &Document{Settings: DefaultSettings()}
	doc.Normalize()
	return doc
}

// Normalize replaces nil slices with empty ones so the encoded document
// always carries arrays rather than nulls.
func (d *Document) Normalize() {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Playlists == nil {
		d.Playlists = []Playlist{}
	}
	if d.Videos == nil {
		d.Videos = []Video{}
	}
	for i := range d.Playlists {
		if d.Playlists[i].Videos == nil {
			d.Playlists[i].Videos = []int{}
		}
	}
	for i := range d.Videos {
		if d.Videos[i].RelatedVideos == nil {
			d.Videos[i].RelatedVideos = []int{}
		}
	}
}

// DecodeDocument parses a JSON document. Absent settings fields keep their
// defaults. Malformed input, a non-object top level and duplicate ids within a
// collection all yield a PARSE_ERROR.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewParseError("document must be a JSON object", nil)
	}

	doc := &Document{Settings: DefaultSettings()}
	if err := json.Unmarshal(trimmed, doc); err != nil {
		return nil, NewParseError("invalid JSON document", err)
	}
	if err := checkUniqueIDs("category", doc.Categories); err != nil {
		return nil, err
	}
	if err := checkUniqueIDs("playlist", doc.Playlists); err != nil {
		return nil, err
	}
	if err := checkUniqueIDs("video", doc.Videos); err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

// EncodeDocument serializes doc as indented JSON without HTML escaping.
func EncodeDocument(doc *Document) ([]byte, error) {
	doc.Normalize()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func checkUniqueIDs[T Identifiable](kind string, items []T) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		id := item.GetID()
		if _, dup := seen[id]; dup {
			return NewParseError(fmt.Sprintf("duplicate %s id %d", kind, id), nil)
		}
		seen[id] = struct{}{}
	}
	return nil
}
