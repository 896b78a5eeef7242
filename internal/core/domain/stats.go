package domain

// SourceStats counts the chunks held for one source kind.
type SourceStats struct {
	Kind     SourceKind `json:"kind"`
	Chunks   int        `json:"chunks"`
	Embedded int        `json:"embedded"`
}

// Complete reports whether every chunk of the source has an embedding.
func (s SourceStats) Complete() bool {
	return s.Chunks == s.Embedded
}

// CorpusStats summarises ingestion progress across all sources.
type CorpusStats struct {
	Sources   []SourceStats `json:"sources"`
	APIKeySet bool          `json:"api_key_set"`
}

// For returns the stats for a source kind, zero if absent.
func (c CorpusStats) For(kind SourceKind) SourceStats {
	for _, s := range c.Sources {
		if s.Kind == kind {
			return s
		}
	}
	return SourceStats{Kind: kind}
}

// TotalChunks sums chunks across sources.
func (c CorpusStats) TotalChunks() int {
	total := 0
	for _, s := range c.Sources {
		total += s.Chunks
	}
	return total
}
