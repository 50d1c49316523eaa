package request

import "sort"

// Triage partitions a snapshot of pending requests into SOS alerts and the
// criticality-ranked consultation queue. The input is not mutated and the
// output is stable for an unchanged input set, so callers can re-run it on
// every poll interval.
//
// Queue ordering: criticality rank descending, then CreatedAt ascending so
// equal-priority requests are first-come-first-served. SOS alerts are all
// equally urgent and are surfaced in arrival order without re-sorting.
func Triage(requests []Request) (sosAlerts, queued []Request) {
	for _, r := range requests {
		if r.Type == TypeSOS {
			sosAlerts = append(sosAlerts, r)
		} else {
			queued = append(queued, r)
		}
	}

	sort.SliceStable(queued, func(i, j int) bool {
		ri, rj := queued[i].Criticality.Rank(), queued[j].Criticality.Rank()
		if ri != rj {
			return ri > rj
		}
		return queued[i].CreatedAt.Before(queued[j].CreatedAt)
	})

	return sosAlerts, queued
}
