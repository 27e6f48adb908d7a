// Package review summarizes validation findings across a bulk change.
package review

import (
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// Aggregator counts validation items across a bulk change's own items and
// every per-employee annotation inside its actions. It is a pure
// summarizer: it never creates or mutates findings.
type Aggregator struct{}

// Summarize tallies every validation item attached to the bulk change.
func (a *Aggregator) Summarize(bc *domain.BulkChange) domain.ValidationCounts {
	var counts domain.ValidationCounts
	a.walk(bc, func(item domain.ValidationItem) {
		weight := item.Count
		if weight == 0 {
			weight = 1
		}
		switch item.Type {
		case domain.ValidationError:
			counts.Errors += weight
		case domain.ValidationWarning:
			counts.Warnings += weight
		case domain.ValidationInfo:
			counts.Info += weight
		case domain.ValidationDependency:
			counts.Dependencies += weight
		}
		if item.IsBlocking() {
			counts.Blocking += weight
		}
	})
	return counts
}

// Blockers returns a human-readable reason per blocking item.
func (a *Aggregator) Blockers(bc *domain.BulkChange) []string {
	var reasons []string
	a.walk(bc, func(item domain.ValidationItem) {
		if !item.IsBlocking() {
			return
		}
		if item.Count > 1 {
			reasons = append(reasons, fmt.Sprintf("%s (%d affected): %s", item.Code, item.Count, item.Message))
			return
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", item.Code, item.Message))
	})
	return reasons
}

func (a *Aggregator) walk(bc *domain.BulkChange, visit func(domain.ValidationItem)) {
	for _, item := range bc.Validation {
		visit(item)
	}
	for _, action := range bc.Actions {
		for _, ec := range action.Employees {
			for _, item := range ec.Validation {
				visit(item)
			}
		}
	}
}
