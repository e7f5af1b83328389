package pipeline

import "time"

// ContentType is the closed enum of payload encodings an artifact can carry.
type ContentType string

const (
	ContentMarkdown ContentType = "markdown"
	ContentJSON     ContentType = "json"
)

// ArtifactEntry is the unit of storage the artifact manager produces. Every
// entry is write-once; within a GroupID, Version forms a strict monotonic
// chain linked by PreviousID.
type ArtifactEntry struct {
	ID          string       `json:"id"`
	Type        ArtifactType `json:"type"`
	Phase       Phase        `json:"phase"`
	Version     int          `json:"version"`
	Path        string       `json:"path"`
	SHA256      string       `json:"sha256"`
	Timestamp   time.Time    `json:"timestamp"`
	Immutable   bool         `json:"immutable"`
	ContentType ContentType  `json:"content_type"`
	GroupID     string       `json:"group_id"`
	PreviousID  string       `json:"previous_id,omitempty"`
}

// ArtifactRef is a weak reference to an ArtifactEntry: it refers without
// owning, and is what packets (plan, consensus, RCA) carry.
type ArtifactRef struct {
	ArtifactID string       `json:"artifact_id"`
	Path       string       `json:"path"`
	SHA256     string       `json:"sha256"`
	Version    int          `json:"version"`
	Type       ArtifactType `json:"type"`
}

// ToRef converts an ArtifactEntry to its weak reference form.
func (e ArtifactEntry) ToRef() ArtifactRef {
	return ArtifactRef{
		ArtifactID: e.ID,
		Path:       e.Path,
		SHA256:     e.SHA256,
		Version:    e.Version,
		Type:       e.Type,
	}
}
