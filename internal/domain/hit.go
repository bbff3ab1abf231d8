package domain

import "encoding/json"

// SearchHit is the subset of a search index document the resolver
// cares about. Provider metadata is inconsistent: the object field may
// be absent, a single string, or an ordered list of strings.
type SearchHit struct {
	Source SearchHitSource `json:"_source"`
}

// SearchHitSource carries the metadata fields of a hit.
type SearchHitSource struct {
	Object json.RawMessage `json:"object"`
}

// ImageURL extracts the candidate source-image URL from the hit.
// A single string is the sole candidate; for a list the first element
// wins and the remainder is ignored. Candidates that do not look like
// absolute http(s) URLs are discarded. Absence, emptiness and
// structurally odd input all yield the same negative result — partial
// metadata must never produce a hard failure.
func (h *SearchHit) ImageURL() (string, bool) {
	if h == nil || len(h.Source.Object) == 0 {
		return "", false
	}

	var single string
	if err := json.Unmarshal(h.Source.Object, &single); err == nil {
		return validateCandidate(single)
	}

	var many []string
	if err := json.Unmarshal(h.Source.Object, &many); err == nil && len(many) > 0 {
		return validateCandidate(many[0])
	}

	return "", false
}

func validateCandidate(s string) (string, bool) {
	if !IsProbablyURL(s) {
		return "", false
	}
	return s, true
}
