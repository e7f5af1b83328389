package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Bootstrapping and running a popeye project",
		Content: topicQuickstart,
	},
	{
		Name:    "phases",
		Title:   "Pipeline Phases",
		Summary: "The 14-phase state machine and what each phase produces",
		Content: topicPhases,
	},
	{
		Name:    "gates",
		Title:   "Gate Engine",
		Summary: "How a phase's artifacts, checks, and consensus score are judged",
		Content: topicGates,
	},
	{
		Name:    "consensus",
		Title:   "Consensus Rounds",
		Summary: "Reviewer fan-out, weighted scoring, and blocking-issue vetoes",
		Content: topicConsensus,
	},
	{
		Name:    "artifacts",
		Title:   "Artifact Store",
		Summary: "Content-addressed, versioned artifacts under docs/",
		Content: topicArtifacts,
	},
	{
		Name:    "recovery",
		Title:   "Recovery and STUCK",
		Summary: "What happens when a gate fails, and when the run gives up",
		Content: topicRecovery,
	},
}

const topicQuickstart = `Quick Start
===========

1. popeye init
   Creates .popeye/config.yaml, skills/, and docs/ in the current
   directory. Edit .popeye/config.yaml to name your reviewer seats.

2. Write skills/POPEYE_CONSTITUTION.md
   This file is hashed at INTAKE and its hash is carried in the
   pipeline state. Any later edit to it blocks every subsequent gate
   until the run is abandoned or the file is restored.

3. popeye run
   Drives the pipeline from whatever phase the persisted state says
   it's on (or INTAKE, for a fresh project) through to DONE or STUCK.
   Progress prints to stdout; Ctrl-C saves state and exits cleanly so
   the next 'popeye run' resumes where it left off.

4. popeye status
   Prints the current phase, the recovery count, any pending change
   requests, and the artifacts recorded in the pipeline state, without
   running anything.
`

const topicPhases = `Pipeline Phases
===============

INTAKE -> CONSENSUS_MASTER_PLAN -> ARCHITECTURE -> CONSENSUS_ARCHITECTURE
-> ROLE_PLANNING -> CONSENSUS_ROLE_PLANS -> IMPLEMENTATION -> QA_VALIDATION
-> REVIEW -> AUDIT -> PRODUCTION_GATE -> DONE

Two out-of-band phases handle gate failures outside the linear
sequence: RECOVERY_LOOP (entered whenever a gate fails and the
recovery budget isn't exhausted) and STUCK (terminal; the run needs a
human).

Each phase's handler is a function of the current PipelineState
plus its collaborators (artifact store, executor, skill loader,
consensus runner) that returns a set of declared mutations — new
artifacts, a score, a rewind target — rather than mutating state
directly. The orchestrator applies the mutation, then asks the gate
engine whether the phase's contract (required artifacts, required
checks, consensus threshold) was satisfied before deciding the next
phase.
`

const topicGates = `Gate Engine
===========

Every phase has a closed Definition: which artifact types must exist
in that phase, which checks must have passed, and — for the three
CONSENSUS_* phases — a weighted-score threshold (0.95). The minimum
reviewer count is handed to the consensus round as its quorum and
decides the packet's approved flag; the gate itself does not count
reviewers.

A gate also re-verifies the project constitution on every evaluation.
Once INTAKE records a constitution hash, any later drift is a sticky
blocker on every phase from then on, including RECOVERY_LOOP itself —
the only way out is to restore the file or abandon the run.

PRODUCTION_GATE's audit_report requirement is checked against the
whole artifact history, not just the current phase's own artifacts,
since an audit produced earlier in the run still proves the system
was reviewed.
`

const topicConsensus = `Consensus Rounds
================

CONSENSUS_MASTER_PLAN, CONSENSUS_ARCHITECTURE, and CONSENSUS_ROLE_PLANS
all run the same round: build one prompt from the plan packet under
review, fan it out to every configured reviewer seat concurrently, and
score the votes.

Scoring tracks two numbers:
  - a simple approval ratio (approvals / total votes)
  - a confidence-weighted average, forced to zero if any reviewer
    raised a blocking issue

The gate only honors the weighted score. A unanimous panel can still
fail the phase if one reviewer attaches a single blocking issue to an
otherwise glowing vote.

A reviewer that errors or times out contributes a synthetic REJECT
vote rather than aborting the round, so one flaky seat can't stall
every consensus phase indefinitely.
`

const topicArtifacts = `Artifact Store
==============

Every artifact is content-addressed (sha256 of its bytes) and
write-once: storing the same bytes twice creates a second, separate
entry. Related artifacts — successive drafts of
the same plan, say — share a GroupID and chain via PreviousID so the
full revision history of one logical document is recoverable.

Artifacts live under <projectDir>/docs/, grouped by type
(docs/master-plan, docs/role-plans, docs/audit, ...). Each artifact has a
JSON metadata sidecar under docs/.artifacts/<id>.json recording its hash,
phase, group, and timestamp, and docs/INDEX.md is rewritten after every
store as a manifest of everything stored so far.
`

const topicRecovery = `Recovery and STUCK
===================

When a phase's gate fails, the orchestrator records which phase
failed and routes to RECOVERY_LOOP instead of advancing. RECOVERY_LOOP
runs a debugger role over the failed phase's check results, builds a
root-cause packet, and names which earlier phase the run should rewind
to (IMPLEMENTATION for a failed QA_VALIDATION/AUDIT/PRODUCTION_GATE,
ROLE_PLANNING for a failed CONSENSUS_ROLE_PLANS, and so on; a failed
REVIEW or IMPLEMENTATION has no rewind target and is retried as is).
If RECOVERY_LOOP's own gate passes, the run rewinds there and tries
again.

Each gate failure that routes to RECOVERY_LOOP increments a recovery
counter against a fixed budget
(five iterations by default). Once the budget is exhausted, the next
gate failure routes to STUCK instead of another recovery attempt.
STUCK is terminal: it records a stuck_report artifact naming the
phase that was failing and its blockers, and the run stops there for
a human to intervene.
`
