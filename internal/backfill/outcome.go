package backfill

import (
	"fmt"

	"cinefill/internal/matching"
)

// Outcome classifies what happened to one record.
type Outcome string

const (
	OutcomeAlreadyHasPoster  Outcome = "already_has_poster"
	OutcomeNoRegistryData    Outcome = "no_registry_data"
	OutcomeNoArchiveResult   Outcome = "no_archive_result"
	OutcomeResultLacksPoster Outcome = "result_lacks_poster"
	OutcomeBelowThreshold    Outcome = "below_threshold"
	OutcomeMatched           Outcome = "matched"
	OutcomeFailed            Outcome = "failed"
)

// Outcomes lists every outcome in reporting order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeAlreadyHasPoster,
		OutcomeNoRegistryData,
		OutcomeNoArchiveResult,
		OutcomeResultLacksPoster,
		OutcomeBelowThreshold,
		OutcomeMatched,
		OutcomeFailed,
	}
}

// status is the coarse tally bucket of a record.
type status int

const (
	statusIgnored status = iota
	statusSucceeded
	statusFailed
)

func (o Outcome) status() status {
	switch o {
	case OutcomeMatched:
		return statusSucceeded
	case OutcomeFailed:
		return statusFailed
	case OutcomeAlreadyHasPoster, OutcomeNoRegistryData, OutcomeNoArchiveResult,
		OutcomeResultLacksPoster, OutcomeBelowThreshold:
		return statusIgnored
	default:
		panic(fmt.Sprintf("backfill: unknown outcome %q", string(o)))
	}
}

func outcomeFromSelection(selection matching.Selection) Outcome {
	switch selection.Outcome {
	case matching.OutcomeMatched:
		return OutcomeMatched
	case matching.OutcomeNoArchiveResult:
		return OutcomeNoArchiveResult
	case matching.OutcomeBelowThreshold:
		return OutcomeBelowThreshold
	default:
		panic(fmt.Sprintf("backfill: unknown selection outcome %q", string(selection.Outcome)))
	}
}
