package store

import (
	"os"
	"time"
)

// SourceFingerprint holds stat-based identity for a run's input.
type SourceFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatSource creates a SourceFingerprint from an on-disk file or
// directory. Stdin ("-") has no fingerprint and returns the zero value.
func StatSource(path string) (SourceFingerprint, error) {
	if path == "-" || path == "" {
		return SourceFingerprint{Path: path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return SourceFingerprint{}, err
	}
	return SourceFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().UTC(),
	}, nil
}
