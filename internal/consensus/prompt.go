package consensus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/popeye-dev/popeye/internal/pipeline"
)

// BuildPrompt renders one plan packet into the prompt every reviewer in the
// round receives verbatim. Reviewers never see each other's outputs, so the
// prompt is the only shared input.
func BuildPrompt(packet pipeline.PlanPacket) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Phase: %s\n", packet.Phase)
	fmt.Fprintf(&sb, "Submitted by: %s\n\n", packet.SubmittedBy)

	sb.WriteString("Artifacts under review:\n")
	for _, a := range packet.ProposedArtifacts {
		fmt.Fprintf(&sb, "- %s v%d (%s)\n", a.Type, a.Version, a.Path)
	}

	if packet.References.MasterPlan != nil {
		fmt.Fprintf(&sb, "\nApproved master plan: %s v%d\n", packet.References.MasterPlan.Path, packet.References.MasterPlan.Version)
	}

	sb.WriteString("\nAcceptance criteria:\n")
	for _, c := range packet.AcceptanceCriteria {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	sb.WriteString("\nDeclared constraints:\n")
	for _, c := range packet.Constraints {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	if len(packet.ArtifactDependencies) > 0 {
		sb.WriteString("\nArtifact dependencies:\n")
		for _, d := range packet.ArtifactDependencies {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
	}

	if len(packet.OpenQuestions) > 0 {
		sb.WriteString("\nOpen questions:\n")
		for _, q := range packet.OpenQuestions {
			fmt.Fprintf(&sb, "- %s\n", q)
		}
	}

	sb.WriteString("\nRespond with a structured vote: vote (APPROVE, CONDITIONAL, or REJECT), ")
	sb.WriteString("confidence (0.0-1.0), blocking_issues (list, empty if none), suggestions (list).\n")

	return sb.String()
}

// PromptHash returns the hex-encoded sha256 of a rendered prompt, captured
// per vote for reproducibility.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
