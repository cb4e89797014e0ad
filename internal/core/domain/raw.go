package domain

// RawDocument is an uploaded file before extraction.
type RawDocument struct {
	// Filename is used for format dispatch by extension.
	Filename string

	// MIMEType is the content type if known.
	MIMEType string

	// Content is the raw file bytes.
	Content []byte

	// Metadata holds caller-supplied properties.
	Metadata map[string]any
}

// Size returns the byte length of the content.
func (r *RawDocument) Size() int64 {
	return int64(len(r.Content))
}

// Extraction is the normalised text of a document and how it was produced.
type Extraction struct {
	// Text is the sanitised plain text.
	Text string

	// Method names the extractor, e.g. "pdf" or "docx".
	Method string

	// OriginalLength is the rune count before cleaning.
	OriginalLength int

	// CleanedLength is the rune count after cleaning.
	CleanedLength int

	// PageCount is set for paginated formats.
	PageCount int

	// Metadata holds extractor-specific properties such as title.
	Metadata map[string]any
}

// MetadataMap returns the extraction details in the form stored on documents.
func (e *Extraction) MetadataMap() map[string]any {
	m := make(map[string]any, len(e.Metadata)+4)
	for k, v := range e.Metadata {
		m[k] = v
	}
	m["original_length"] = e.OriginalLength
	m["cleaned_length"] = e.CleanedLength
	m["extraction_method"] = e.Method
	if e.PageCount > 0 {
		m["page_count"] = e.PageCount
	}
	return m
}
