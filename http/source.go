package http

import (
	"strings"

	"github.com/FortovEgor/ServeMe/filesystem"
)

// FilePrefix marks a registered response as file-backed: the remainder of
// the string names a file whose contents become the body.
const FilePrefix = "@file:"

// Source is a registered response body: an inline literal, or a reference to
// a file on disk when the value starts with FilePrefix. An empty ContentType
// falls back to DefaultContentType at render time.
type Source struct {
	Value       string
	ContentType string
}

// FileBacked reports whether the source names a file rather than an inline
// body.
func (source Source) FileBacked() bool {
	return strings.HasPrefix(source.Value, FilePrefix)
}

// Resolve returns the response body. File-backed sources are read on every
// call; the path resolves relative to the process working directory. A read
// failure degrades to an empty body alongside the error so the request can
// still be answered.
func (source Source) Resolve(fs filesystem.Filesystem) ([]byte, error) {
	if !source.FileBacked() {
		return []byte(source.Value), nil
	}

	body, err := fs.ReadFile(strings.TrimPrefix(source.Value, FilePrefix))
	if err != nil {
		return []byte{}, err
	}

	return body, nil
}
