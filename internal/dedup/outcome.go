package dedup

import "fmt"

// Outcome is the classification of one ingestion request.
type Outcome int

const (
	// OutcomeNew: neither name nor content was known; all chunks are forwarded.
	OutcomeNew Outcome = iota
	// OutcomeSkipDuplicateContent: the content is known under another name with the same shape.
	OutcomeSkipDuplicateContent
	// OutcomeDuplicateContentNewShape: the content is known under another name but split differently.
	OutcomeDuplicateContentNewShape
	// OutcomeSkipUnchanged: same name, same content, same shape.
	OutcomeSkipUnchanged
	// OutcomeSameContentNewShape: same name and content, new chunk count.
	OutcomeSameContentNewShape
	// OutcomeContentUpdated: same name, new content; only the reconciled delta is forwarded.
	OutcomeContentUpdated
	// OutcomeErrorSuppressed: an internal failure stopped the ingestion; nothing is forwarded.
	OutcomeErrorSuppressed
)

var outcomeNames = map[Outcome]string{
	OutcomeNew:                      "new",
	OutcomeSkipDuplicateContent:     "skip_duplicate_content",
	OutcomeDuplicateContentNewShape: "duplicate_content_new_shape",
	OutcomeSkipUnchanged:            "skip_unchanged",
	OutcomeSameContentNewShape:      "same_content_new_shape",
	OutcomeContentUpdated:           "content_updated",
	OutcomeErrorSuppressed:          "error_suppressed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name for JSON responses.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Skipped reports whether the outcome deliberately forwards nothing.
// A suppressed failure is not a skip.
func (o Outcome) Skipped() bool {
	return o == OutcomeSkipDuplicateContent || o == OutcomeSkipUnchanged
}

// Result is what the engine hands to the embedding stage.
type Result struct {
	Outcome Outcome
	// Chunks to embed and store. Empty means store nothing.
	Chunks []Chunk
	// Deleted holds vector point ids removed during reconciliation.
	Deleted []string
	// MatchedName is the catalog document the request was matched against, if any.
	MatchedName string
	// Err is set only for OutcomeErrorSuppressed.
	Err error

	// change records what the classification committed to the catalog.
	change *catalogChange
}

// catalogChange is the catalog side effect of one committed classification.
type catalogChange struct {
	documentID int64
	chunkCount int
	// created is set when the classification inserted the document.
	created bool
	// countAdded is set when chunkCount was recorded by the classification.
	countAdded bool
	// previousHash is the hash overwritten by a content update, if any.
	previousHash string
	hash         string
}
