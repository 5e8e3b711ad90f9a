package textclean

// Stats accumulates named cleaning counters for one file. The pipeline sums
// them across a batch; after the run they are read-only.
type Stats struct {
	NoiseLinesRemoved  int `json:"noise_lines_removed"`
	LongNumbersRemoved int `json:"long_numbers_removed"`
	DuplicatesRemoved  int `json:"duplicates_removed"`
	KeyHeadersFound    int `json:"key_headers_found"`
	OriginalLength     int `json:"original_length"`
	CleanedLength      int `json:"cleaned_length"`
}

// Merge adds another file's counters into the receiver.
func (s *Stats) Merge(other Stats) {
	s.NoiseLinesRemoved += other.NoiseLinesRemoved
	s.LongNumbersRemoved += other.LongNumbersRemoved
	s.DuplicatesRemoved += other.DuplicatesRemoved
	s.KeyHeadersFound += other.KeyHeadersFound
	s.OriginalLength += other.OriginalLength
	s.CleanedLength += other.CleanedLength
}
