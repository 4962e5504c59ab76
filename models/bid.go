package models

import "time"

// CertificationLevel is the crafter's declared skill tier for the job's
// discipline.
type CertificationLevel string

// Certification tiers recognised by the marketplace.
const (
	CertNovice      CertificationLevel = "Novice"
	CertApprentice  CertificationLevel = "Apprentice"
	CertJourneyman  CertificationLevel = "Journeyman"
	CertMaster      CertificationLevel = "Master"
	CertGrandmaster CertificationLevel = "Grandmaster"
)

// Bid is a crafter's offer on a posted job. A user may hold at most one bid
// per job, and a bid becomes immutable once the parent job leaves the posted
// state.
type Bid struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// JobID references the parent job.
	JobID int64 `json:"job"`

	// Bidder is the offering user.
	Bidder UserRef `json:"bidder"`

	// CrafterName is the bidder's in-game character name.
	CrafterName string `json:"in_game_name"`

	// Money is the proposed price in display denominations.
	Money

	// ProposedCopper is the canonical proposed price in copper units.
	ProposedCopper int64 `json:"proposed_price_copper"`

	// EstimatedCompletion is the bidder's free-form time estimate.
	EstimatedCompletion string `json:"estimated_completion_time"`

	// Certification is the bidder's declared skill tier.
	Certification CertificationLevel `json:"certification_level"`

	// Note carries an optional message to the job owner.
	Note string `json:"note,omitempty"`

	// PlacedAt is when the bid was submitted.
	PlacedAt time.Time `json:"date_bid"`

	// Accepted reports whether the job owner accepted this bid.
	Accepted bool `json:"accepted"`
}

// Superseded reports whether the bid can no longer be accepted because the
// job already carries a different accepted bid. The backend does not persist
// this as a state; it is derived for presentation.
func (b Bid) Superseded(job Job) bool {
	return job.AcceptedBidID != nil && *job.AcceptedBidID != b.ID
}

// BidSpec carries the fields required to submit a bid on a job.
type BidSpec struct {
	CrafterName         string             `json:"in_game_name"`
	Money
	EstimatedCompletion string             `json:"estimated_completion_time"`
	Certification       CertificationLevel `json:"certification_level"`
	Note                string             `json:"note,omitempty"`
}
