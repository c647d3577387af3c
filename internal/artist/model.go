package artist

// Artist is a read-only snapshot of one library artist, taken once per run.
type Artist struct {
	// ID is the media server's own key for the artist.
	ID            string `json:"id"`
	Name          string `json:"name"`
	MusicBrainzID string `json:"musicbrainz_id,omitempty"`
	// Thumb references the current picture on the server. It is never
	// interpreted locally.
	Thumb string `json:"thumb,omitempty"`
}

// HasMusicBrainzID reports whether the artist can be looked up in an
// MBID-keyed catalog.
func (a *Artist) HasMusicBrainzID() bool {
	return a.MusicBrainzID != ""
}

// String returns the artist name for log and report output.
func (a *Artist) String() string {
	if a.Name == "" {
		return a.ID
	}
	return a.Name
}
