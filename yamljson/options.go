package yamljson

// Options configures a Reader. The zero value is the default
// configuration.
type Options struct {
	// CloseInput closes the underlying source (if it implements
	// io.Closer) when the Reader is closed.
	CloseInput bool

	// IgnoreTextOutsideDocumentMarkers skips input until a '---'
	// document start, and between documents skips until the next '---'.
	IgnoreTextOutsideDocumentMarkers bool

	// AcceptContentOnStartDocumentLine permits content on the same line
	// as the '---' marker.
	AcceptContentOnStartDocumentLine bool

	// MergeDocuments treats multiple '---'-separated documents as one
	// continuous document instead of ending the event stream at the
	// first document boundary.
	MergeDocuments bool

	// KeepGoing accumulates diagnostics and parses on. When false (the
	// default) the first diagnostic is returned as an error from Next.
	KeepGoing bool
}
