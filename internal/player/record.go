package player

import (
	"strings"
	"time"
)

// Status describes what the directory reports about a matched player.
type Status string

const (
	StatusActive      Status = "active"
	StatusCareerEnded Status = "career_ended"
	StatusUnknown     Status = "unknown"
)

// CareerEndedValue is the market value sentinel used for retired players.
const CareerEndedValue = -1.0

// ContractUnresolved marks a detail page that was read but carried no date.
const ContractUnresolved = "?"

var statusSet = map[Status]struct{}{
	StatusActive:      {},
	StatusCareerEnded: {},
	StatusUnknown:     {},
}

// ParseStatus maps a stored status string back to a Status. Unrecognised
// values map to StatusUnknown.
func ParseStatus(value string) Status {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusSet[status]; ok {
		return status
	}
	return StatusUnknown
}

// Record is the resolution outcome for one input name.
type Record struct {
	OriginalName    string    `json:"original_name"`
	MatchedName     string    `json:"matched_name"`
	MarketValue     float64   `json:"market_value"`
	Status          Status    `json:"status"`
	ContractEnd     string    `json:"contract_end,omitempty"`
	BirthDate       string    `json:"birth_date,omitempty"`
	NeedsReview     bool      `json:"needs_review"`
	ResolutionError string    `json:"resolution_error,omitempty"`
	ResolvedAt      time.Time `json:"resolved_at"`
	DetailURL       string    `json:"detail_url,omitempty"`
	Score           float64   `json:"score,omitempty"`
}

// Unknown builds the terminal record for a name that produced no match.
func Unknown(name, reason string, at time.Time) Record {
	return Record{
		OriginalName:    name,
		Status:          StatusUnknown,
		ResolutionError: reason,
		ResolvedAt:      at,
	}
}

// Matched reports whether the record identifies a directory entry.
func (r Record) Matched() bool {
	return r.Status != StatusUnknown && r.MatchedName != ""
}

// Cacheable reports whether the record is informative enough to be stored.
// Pure unknown outcomes are left out so a later run retries them.
func (r Record) Cacheable() bool {
	return r.MarketValue > 0 || r.Status != StatusUnknown
}

// FullyResolved reports whether the record needs no follow-up: it matched,
// is not flagged for review, and carried no error.
func (r Record) FullyResolved() bool {
	return r.Matched() && !r.NeedsReview && r.ResolutionError == ""
}

// Reason summarises why a record is not fully resolved.
func (r Record) Reason() string {
	switch {
	case r.ResolutionError != "":
		return r.ResolutionError
	case r.NeedsReview:
		return "flagged for manual review"
	case !r.Matched():
		return "no match"
	default:
		return ""
	}
}
