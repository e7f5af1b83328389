package phase

import (
	"encoding/json"
	"fmt"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// readSnapshot reads and unmarshals a stored repo_snapshot artifact.
func (c *Context) readSnapshot(e pipeline.ArtifactEntry, out *pipeline.RepoSnapshot) error {
	data, err := c.Store.ReadArtifact(e)
	if err != nil {
		return fmt.Errorf("reading artifact %s: %w", e.ID, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshaling snapshot artifact %s: %w", e.ID, err)
	}
	return nil
}
