package domain

// Attachment is the stable reference produced by the external storage layer.
// Immutable once set at creation; not independently editable or deletable.
type Attachment struct {
	Url       string `json:"url" db:"url"`
	MediaType string `json:"media_type" db:"media_type"`
	ByteSize  int64  `json:"byte_size" db:"byte_size"`
}

type Attachments = []Attachment
