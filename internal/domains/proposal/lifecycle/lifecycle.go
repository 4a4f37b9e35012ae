// Package lifecycle derives the six-stage progress timeline for a proposal.
//
// It is the single evaluator behind every surface that renders proposal
// progress (guest page, host page, progress bar), replacing the per-widget
// conditionals that used to drift apart. The evaluation is total: any status
// string, including unknown ones, produces a timeline without error.
package lifecycle

import (
	"splitlease/internal/domains/proposal/model"
)

// Tone is the render state of one stage indicator or connector.
type Tone string

const (
	ToneCompleted Tone = "completed"
	ToneActive    Tone = "active"
	ToneBlocked   Tone = "blocked"
	TonePending   Tone = "pending"

	// ToneEmpty is the stage-1 sentinel for a proposal whose status was never
	// set. It is distinct from pending: the UI renders a visible empty marker,
	// not the default gray.
	ToneEmpty Tone = "empty"

	// ToneDimmed is the stage-4 gray shown once the host has finalized the
	// documents review, independent of the usual order.
	ToneDimmed Tone = "dimmed"
)

// Stage indices, Sunday-first style: fixed and ordered.
const (
	StageProposalSubmitted = iota
	StageRentalApplication
	StageHostReview
	StageReviewDocuments
	StageLeaseDocuments
	StageInitialPayment

	StageCount     = 6
	ConnectorCount = StageCount - 1
)

var stageTitles = [StageCount]string{
	"Proposal Submitted",
	"Rental Application Submitted",
	"Host Review",
	"Review Documents",
	"Lease Documents",
	"Initial Payment",
}

// StageTitle returns the display title for a stage index, or "" when the index
// is out of range.
func StageTitle(stage int) string {
	if stage < 0 || stage >= StageCount {
		return ""
	}

	return stageTitles[stage]
}

// Snapshot is the already-fetched proposal state the evaluator reads. It holds
// no references back to storage; evaluation does no I/O.
type Snapshot struct {
	Status                       string
	UsualOrder                   int
	HasRentalApplication         bool
	RentalApplicationSubmitted   bool
	HostDocumentsReviewFinalized bool
}

// FromProposal builds a Snapshot from a proposal row.
func FromProposal(p model.Proposal) Snapshot {
	return Snapshot{
		Status:                       p.Status,
		UsualOrder:                   p.UsualOrder,
		HasRentalApplication:         p.RentalApplicationID != nil,
		RentalApplicationSubmitted:   p.RentalApplicationSubmitted,
		HostDocumentsReviewFinalized: p.HostDocumentsReviewFinalized,
	}
}

// StageState is the derived render state of one stage indicator.
type StageState struct {
	Title       string `json:"title"`
	Tone        Tone   `json:"tone"`
	Interactive bool   `json:"interactive"`
}

// Timeline is the full derived progress row: six stages and the five
// connecting segments between them.
type Timeline struct {
	Stages     [StageCount]StageState `json:"stages"`
	Connectors [ConnectorCount]Tone   `json:"connectors"`
	Cancelled  bool                   `json:"cancelled"`
}

// Evaluate derives the timeline for a snapshot. Precedence follows the stage
// table: within a stage the completed predicate is checked before the active
// one, and the terminal override is applied last and unconditionally.
func Evaluate(snap Snapshot) Timeline {
	var timeline Timeline

	for i := range timeline.Stages {
		timeline.Stages[i] = StageState{Title: stageTitles[i], Tone: TonePending}
	}

	for i := range timeline.Connectors {
		timeline.Connectors[i] = TonePending
	}

	if snap.Status == "" {
		timeline.Stages[StageProposalSubmitted].Tone = ToneEmpty

		return timeline
	}

	status, known := model.ParseStatus(snap.Status)
	if !known {
		// Unrecognized status: every stage stays pending, no override.
		return timeline
	}

	if !status.IsTerminal() {
		timeline.Stages[StageProposalSubmitted] = stageState(StageProposalSubmitted, ToneCompleted)
		timeline.Stages[StageRentalApplication] = evalRentalApplication(snap, status)
		timeline.Stages[StageHostReview] = evalHostReview(snap, status)
		timeline.Stages[StageReviewDocuments] = evalReviewDocuments(snap, status)
		timeline.Stages[StageLeaseDocuments] = evalLeaseDocuments(snap, status)
		timeline.Stages[StageInitialPayment] = evalInitialPayment(status)

		for i := range timeline.Connectors {
			timeline.Connectors[i] = connectorTone(timeline.Stages[i+1].Tone)
		}
	}

	// Terminal override: evaluated last, wins over everything above.
	if status.IsTerminal() {
		timeline.Cancelled = true

		for i := range timeline.Stages {
			timeline.Stages[i] = StageState{Title: stageTitles[i], Tone: ToneBlocked}
		}

		for i := range timeline.Connectors {
			timeline.Connectors[i] = ToneBlocked
		}
	}

	return timeline
}

func stageState(stage int, tone Tone) StageState {
	return StageState{
		Title:       stageTitles[stage],
		Tone:        tone,
		Interactive: tone == ToneActive,
	}
}

func evalRentalApplication(snap Snapshot, status model.Status) StageState {
	if snap.UsualOrder >= 1 {
		return stageState(StageRentalApplication, ToneCompleted)
	}

	if !snap.HasRentalApplication ||
		status == model.StatusAwaitingRentalApplication ||
		status == model.StatusPendingConfirmation {
		return stageState(StageRentalApplication, ToneActive)
	}

	return stageState(StageRentalApplication, TonePending)
}

func evalHostReview(snap Snapshot, status model.Status) StageState {
	if snap.UsualOrder >= 3 {
		return stageState(StageHostReview, ToneCompleted)
	}

	if status == model.StatusHostReview && snap.RentalApplicationSubmitted {
		return stageState(StageHostReview, ToneActive)
	}

	if status == model.StatusHostCounterofferSubmitted {
		return stageState(StageHostReview, ToneActive)
	}

	return stageState(StageHostReview, TonePending)
}

func evalReviewDocuments(snap Snapshot, status model.Status) StageState {
	// The finalized flag dims the stage regardless of the usual order, so it
	// wins over the completed threshold.
	if snap.HostDocumentsReviewFinalized {
		return stageState(StageReviewDocuments, ToneDimmed)
	}

	if snap.UsualOrder >= 5 {
		return stageState(StageReviewDocuments, ToneCompleted)
	}

	if status == model.StatusDocumentsSentForReview {
		return stageState(StageReviewDocuments, ToneActive)
	}

	return stageState(StageReviewDocuments, TonePending)
}

func evalLeaseDocuments(snap Snapshot, status model.Status) StageState {
	if snap.UsualOrder >= 6 {
		return stageState(StageLeaseDocuments, ToneCompleted)
	}

	if status == model.StatusDocumentsSentForSignatures {
		return stageState(StageLeaseDocuments, ToneActive)
	}

	return stageState(StageLeaseDocuments, TonePending)
}

func evalInitialPayment(status model.Status) StageState {
	if status == model.StatusInitialPaymentSubmitted {
		return stageState(StageInitialPayment, ToneCompleted)
	}

	if status == model.StatusSignedAwaitingPayment {
		return stageState(StageInitialPayment, ToneActive)
	}

	return stageState(StageInitialPayment, TonePending)
}

// connectorTone fills the segment leading into a stage from that stage's own
// tone, so the bar reads continuously left to right.
func connectorTone(next Tone) Tone {
	switch next {
	case ToneCompleted, ToneActive:
		return next
	default:
		return TonePending
	}
}
