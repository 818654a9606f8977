package convert

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"o2q/archive"
)

// assetSource serves the SVG assets point symbols embed. The same lookup
// contract works over a plain directory tree and over a zipped resource
// bundle, which is how OsmAnd distributes its icon sets.
type assetSource struct {
	path     string
	archived bool
}

// openAssetSource prepares asset lookups over path. The kind of source is
// determined by what is actually there, not by the name: directories are
// served directly, regular files must be zip archives.
func openAssetSource(path string) (*assetSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Mode().IsDir() {
		return &assetSource{path: path}, nil
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("unexpected asset source mode for (%s)", path)
	}

	arch, err := isArchiveFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to check archive type: %w", err)
	}
	if !arch {
		return nil, fmt.Errorf("asset source (%s) is neither a directory nor a zip archive", path)
	}
	return &assetSource{path: path, archived: true}, nil
}

// Load returns the raw bytes of the named asset. A missing asset reports
// fs.ErrNotExist for both source kinds so the caller has a single check.
func (s *assetSource) Load(name string) ([]byte, error) {
	if s.archived {
		return archive.ReadFile(s.path, name)
	}
	return os.ReadFile(filepath.Join(s.path, name))
}

// encodeAsset wraps raw vector bytes into the embedded payload form the
// style format uses, a base64 body behind a literal tag that tells encoded
// binary apart from plain string values.
func encodeAsset(data []byte) string {
	return "base64:" + base64.StdEncoding.EncodeToString(data)
}
