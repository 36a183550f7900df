package domain

import (
	"time"
)

type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	Team      *int      `json:"team"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LedgerEntry is an append-only activity record. Km carries the sign:
// corrections are inserted as negative entries, never as updates. Team is
// stamped from the person's assignment at insert time and never moves.
type LedgerEntry struct {
	ID        string    `json:"id"`
	Person    string    `json:"person"`
	Km        float64   `json:"km"`
	Team      int       `json:"team"`
	ProofPath string    `json:"proofPath,omitempty"`
	ProofURL  string    `json:"proofUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e LedgerEntry) HasProof() bool {
	return e.ProofPath != "" || e.ProofURL != ""
}

// MemberTotal is one row of the per-team totals view.
type MemberTotal struct {
	Person string
	Name   string
	Team   int
	Total  float64
}

// TeamDraw is the result of shuffling a set of people into two halves.
// With an odd count the blue half gets the extra person.
type TeamDraw struct {
	Blue []Person `json:"blue"`
	Red  []Person `json:"red"`
}

// Standing is a member's aggregated share of a team's total.
type Standing struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Percent float64 `json:"percent"`
}

type ProofItem struct {
	EntryID   string    `json:"entryId"`
	ProofURL  string    `json:"proofUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
