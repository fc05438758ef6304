package models

import (
	"mime"
	"strings"
)

const JSONContentType = "application/json"

// FileSelection is a file picked by the user, held until the next selection.
type FileSelection struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// IsJSON reports whether the declared content type is application/json.
// Media type parameters such as charset are ignored.
func (f *FileSelection) IsJSON() bool {
	if f == nil {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, JSONContentType)
}
