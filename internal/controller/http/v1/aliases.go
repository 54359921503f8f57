package v1

import (
	"mime/multipart"
	"net/url"
)

// fieldAliases is an ordered list of names a client may use for the same input.
// The first name present in the request wins.
type fieldAliases []string

var (
	vocalFileFields      = fieldAliases{"file", "audio", "audio_file", "upload"}
	transcribeFileFields = fieldAliases{"file", "audio", "audio_data", "data"}
	transcribeBodyKeys   = fieldAliases{"audio", "file", "audio_data", "data"}
)

func (a fieldAliases) file(form *multipart.Form) (*multipart.FileHeader, string) {
	if form == nil {
		return nil, ""
	}
	for _, name := range a {
		if files := form.File[name]; len(files) > 0 {
			return files[0], name
		}
	}
	return nil, ""
}

func (a fieldAliases) value(values url.Values) (string, string) {
	for _, name := range a {
		if v := values.Get(name); v != "" {
			return v, name
		}
	}
	return "", ""
}

// receivedFields lists every field name of form, for diagnostics.
func receivedFields(form *multipart.Form) []string {
	if form == nil {
		return nil
	}
	names := make([]string, 0, len(form.File)+len(form.Value))
	for name := range form.File {
		names = append(names, name)
	}
	for name := range form.Value {
		names = append(names, name)
	}
	return names
}
