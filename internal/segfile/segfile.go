// Package segfile reads and writes segmentation files: JSON documents of
// the form
//
//	{"segmentation_type": "linear", "id": "...", "items": {doc: {coder: [mass, ...]}}}
package segfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dusk-indust/segagree/internal/segment"
)

// Linear is the only supported segmentation type.
const Linear = "linear"

// ErrUnsupportedType is returned for files whose segmentation_type is not
// "linear".
var ErrUnsupportedType = errors.New("segfile: unsupported segmentation type")

// File is the top-level structure of a segmentation file.
type File struct {
	SegmentationType string         `json:"segmentation_type"`
	ID               string         `json:"id"`
	Items            segment.Corpus `json:"items"`
}

// New returns a linear segmentation file.
func New(id string, items segment.Corpus) *File {
	return &File{SegmentationType: Linear, ID: id, Items: items}
}

// Decode reads a segmentation file from r and checks every segmentation in
// it. An empty segmentation_type is read as linear.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode segmentation file: %w", err)
	}
	if f.SegmentationType == "" {
		f.SegmentationType = Linear
	}
	if f.SegmentationType != Linear {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, f.SegmentationType)
	}
	if f.Items == nil {
		f.Items = segment.Corpus{}
	}
	for _, id := range f.Items.DocumentIDs() {
		for _, coder := range f.Items[id].Coders() {
			if err := f.Items[id][coder].Validate(); err != nil {
				return nil, fmt.Errorf("document %s, coder %s: %w", id, coder, err)
			}
		}
	}
	return &f, nil
}

// Load reads the segmentation file at path.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Encode writes f to w as indented JSON with sorted keys.
func Encode(w io.Writer, f *File) error {
	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// Save writes f to path, creating parent directories as needed.
func Save(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(fh, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
