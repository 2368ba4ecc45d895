// Package archive opens compressed match archives and exposes their XML
// document as a generic node tree. It has no knowledge of the save format's
// record families; that belongs to the extractors.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Read opens a zip archive from raw bytes and parses its first XML entry
// into a node tree.
func Read(data []byte) (*Node, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip container: %w", err)
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive entry %s: %w", f.Name, err)
		}
		root, err := Parse(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing archive entry %s: %w", f.Name, err)
		}
		return root, nil
	}

	return nil, fmt.Errorf("no xml document in archive")
}
