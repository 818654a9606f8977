package convert

import (
	"errors"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// isArchiveFile reports whether the file at path is a zip archive. Only the
// header bytes are consulted, the extension does not matter.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// filetype matchers never need more than the first 261 bytes
	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}
