package models

import "time"

// JobStatus is the lifecycle state of a job. Transitions are strictly
// forward: posted -> accepted -> completed -> delivered.
type JobStatus string

const (
	// JobPosted means the job is open and accepting bids.
	JobPosted JobStatus = "posted"

	// JobAccepted means the owner has accepted a bid and the crafter is at
	// work. No further bids can be accepted.
	JobAccepted JobStatus = "accepted"

	// JobCompleted means the accepted bidder has finished the work and is
	// waiting for the owner to take delivery.
	JobCompleted JobStatus = "completed"

	// JobDelivered means the owner has received the goods. Terminal state.
	JobDelivered JobStatus = "delivered"
)

// Rank returns the position of the status in the lifecycle order, or -1 for
// an unknown status. Used to enforce monotonic transitions.
func (s JobStatus) Rank() int {
	switch s {
	case JobPosted:
		return 0
	case JobAccepted:
		return 1
	case JobCompleted:
		return 2
	case JobDelivered:
		return 3
	default:
		return -1
	}
}

// ItemCategory is the crafting discipline a job belongs to.
type ItemCategory string

// Item categories recognised by the marketplace.
const (
	CategoryAlchemy            ItemCategory = "Alchemy"
	CategoryAnimalHusbandry    ItemCategory = "Animal Husbandry"
	CategoryArcaneEngineering  ItemCategory = "Arcane Engineering"
	CategoryArmorSmithing      ItemCategory = "Armor Smithing"
	CategoryCarpentry          ItemCategory = "Carpentry"
	CategoryCooking            ItemCategory = "Cooking"
	CategoryFarming            ItemCategory = "Farming"
	CategoryFishing            ItemCategory = "Fishing"
	CategoryHerbalism          ItemCategory = "Herbalism"
	CategoryHunting            ItemCategory = "Hunting"
	CategoryJewelCutting       ItemCategory = "Jewel Cutting"
	CategoryLeatherworking     ItemCategory = "Leatherworking"
	CategoryLumberjacking      ItemCategory = "Lumberjacking"
	CategoryLumberMilling      ItemCategory = "Lumber Milling"
	CategoryMetalworking       ItemCategory = "Metalworking"
	CategoryMining             ItemCategory = "Mining"
	CategoryOther              ItemCategory = "Other"
	CategoryScribing           ItemCategory = "Scribing"
	CategoryStonemasonry       ItemCategory = "Stonemasonry"
	CategoryTailoring          ItemCategory = "Tailoring"
	CategoryTanning            ItemCategory = "Tanning"
	CategoryWeaponSmithing     ItemCategory = "Weapon Smithing"
	CategoryWeaving            ItemCategory = "Weaving"
)

// Job is a crafting request posted to the marketplace.
type Job struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// PostedBy is the job owner. Only the owner may edit, delete, accept a
	// bid on, or mark delivery of the job.
	PostedBy UserRef `json:"posted_by"`

	// CrafterName is the owner's in-game character name.
	CrafterName string `json:"in_game_name"`

	// Server and Node locate the job in the game world.
	Server string `json:"server"`
	Node   string `json:"node"`

	// ItemsRequested describes what the owner wants crafted.
	ItemsRequested string `json:"items_requested"`

	// Category is the crafting discipline required.
	Category ItemCategory `json:"item_category"`

	// Money is the offered price in display denominations.
	Money

	// TotalCopper is the canonical price in copper units, computed
	// server-side from the display denominations.
	TotalCopper int64 `json:"total_copper"`

	// Deadline is the latest acceptable completion date (YYYY-MM-DD).
	Deadline string `json:"deadline"`

	// SpecialNotes carries free-form instructions for the crafter.
	SpecialNotes string `json:"special_notes"`

	// DatePosted is when the job was created.
	DatePosted time.Time `json:"date_posted"`

	// Status is the current lifecycle state.
	Status JobStatus `json:"status"`

	// AcceptedBidID references the single accepted bid, nil while posted.
	// A job has at most one accepted bid at any time.
	AcceptedBidID *int64 `json:"accepted_bid"`

	// CompletedDate is set when the accepted bidder marks the work done.
	CompletedDate *time.Time `json:"completed_date,omitempty"`
}

// Owned reports whether the job belongs to the given user.
func (j Job) Owned(userID int64) bool {
	return j.PostedBy.ID == userID
}

// JobSpec carries the fields required to post a new job. The price travels
// in display denominations; the server derives the canonical copper total.
type JobSpec struct {
	CrafterName    string       `json:"in_game_name"`
	Server         string       `json:"server"`
	Node           string       `json:"node"`
	ItemsRequested string       `json:"items_requested"`
	Category       ItemCategory `json:"item_category"`
	Money
	Deadline     string `json:"deadline"`
	SpecialNotes string `json:"special_notes,omitempty"`
}

// JobPatch is a partial job update, legal only while the job is posted.
// Nil fields are left unchanged; a non-nil Money replaces all three price
// components at once.
type JobPatch struct {
	Server         *string       `json:"server,omitempty"`
	Node           *string       `json:"node,omitempty"`
	ItemsRequested *string       `json:"items_requested,omitempty"`
	Category       *ItemCategory `json:"item_category,omitempty"`
	*Money
	Deadline     *string `json:"deadline,omitempty"`
	SpecialNotes *string `json:"special_notes,omitempty"`
}
