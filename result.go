package genner

// CodeResult is the outcome of GenerateCode.
type CodeResult struct {
	// Code holds one block per requested tag, in tag order. It is nil when
	// extraction failed after a successful completion.
	Code []string

	// Raw is the unmodified completion text.
	Raw string

	// Cause is the extraction error behind a nil Code.
	Cause error
}

// HasCode reports whether extraction succeeded.
func (r *CodeResult) HasCode() bool {
	return r != nil && r.Code != nil
}

// ListResult is the outcome of GenerateList.
type ListResult struct {
	// Items holds one list per requested tag, in tag order.
	Items [][]string

	// Raw is the unmodified completion text.
	Raw string
}
