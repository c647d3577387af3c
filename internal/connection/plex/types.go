package plex

// Plex wraps every JSON response in a MediaContainer object.

// IdentityResponse is the response from GET /identity.
type IdentityResponse struct {
	MediaContainer Identity `json:"MediaContainer"`
}

// Identity describes the server.
type Identity struct {
	MachineIdentifier string `json:"machineIdentifier"`
	Version           string `json:"version"`
}

// SectionsResponse is the response from GET /library/sections.
type SectionsResponse struct {
	MediaContainer struct {
		Directory []Section `json:"Directory"`
	} `json:"MediaContainer"`
}

// Section is one library section. Music sections have Type "artist".
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// MetadataResponse is the response from GET /library/sections/{key}/all.
type MetadataResponse struct {
	MediaContainer MetadataContainer `json:"MediaContainer"`
}

// MetadataContainer holds one page of metadata items. TotalSize is only
// present when container paging headers were sent.
type MetadataContainer struct {
	Size      int            `json:"size"`
	TotalSize int            `json:"totalSize"`
	Offset    int            `json:"offset"`
	Metadata  []MetadataItem `json:"Metadata"`
}

// MetadataItem is an artist entry.
type MetadataItem struct {
	RatingKey string `json:"ratingKey"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Thumb     string `json:"thumb"`
	// GUID is the primary agent GUID (e.g. plex://artist/...). It is declared
	// so the decoder does not fold "guid" into the Guids array.
	GUID  string `json:"guid"`
	Guids []Guid `json:"Guid"`
}

// Guid is an external identifier such as "mbid://<uuid>".
type Guid struct {
	ID string `json:"id"`
}

// MediaTypeArtist is the Plex metadata type number for artists.
const MediaTypeArtist = 8

// SectionTypeArtist is the section type of music libraries.
const SectionTypeArtist = "artist"
