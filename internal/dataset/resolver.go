package dataset

// Missing reports which field groups of the row still need fetching, in the
// fixed processing order. A group counts as present only when all of its
// member fields are non-empty/non-zero; a partially filled group is fetched
// again as a whole. Zero like/view counts are treated as missing, so rows
// with genuinely zero counts are fetched again on every run.
//
// Missing is a pure function of the row's visible fields. TranscriptLang is
// informational and never participates in the completeness rule.
func Missing(row Row) []FieldGroup {
	ret := make([]FieldGroup, 0, 4)

	if row.Username == "" {
		ret = append(ret, GroupIdentity)
	}
	if row.Followers == 0 {
		ret = append(ret, GroupProfileStats)
	}
	if row.Likes == 0 || row.Views == 0 || row.Description == "" || row.PublishDate == "" {
		ret = append(ret, GroupVideoMetadata)
	}
	if row.Transcript == "" {
		ret = append(ret, GroupTranscript)
	}

	return ret
}

// Complete reports whether every field group of the row is fully populated.
func Complete(row Row) bool {
	return len(Missing(row)) == 0
}
