package definition

import "errors"

// Document is a raw definition payload tagged with the name it was loaded
// under. The name is a file path or URL and only serves diagnostics: decode
// errors and format sniffing.
type Document struct {
	name string
	data []byte
}

// NewDocument wraps a raw payload under the given name.
func NewDocument(name string, data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, errors.New("definition: document is empty")
	}
	return Document{name: name, data: append([]byte(nil), data...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests
// and inline fixtures.
func MustNewDocument(name string, data []byte) Document {
	doc, err := NewDocument(name, data)
	if err != nil {
		panic(err)
	}
	return doc
}

// Name returns the path or URL the document was loaded from.
func (d Document) Name() string {
	return d.name
}

// Data returns a copy of the payload.
func (d Document) Data() []byte {
	return append([]byte(nil), d.data...)
}
