package content

import "github.com/google/uuid"

// GroupBySeries groups a flat episode listing under their parent series.
// Groups appear in first-seen order and episodes keep their original
// order within a group. Pure aggregation for display structuring; it has
// no persistence implication.
func GroupBySeries(episodes []Episode) []SeriesGroup {
	index := make(map[uuid.UUID]int, len(episodes))
	groups := make([]SeriesGroup, 0, len(episodes))
	for _, ep := range episodes {
		at, ok := index[ep.SeriesID]
		if !ok {
			at = len(groups)
			index[ep.SeriesID] = at
			groups = append(groups, SeriesGroup{SeriesID: ep.SeriesID, SeriesTitle: ep.SeriesTitle})
		}
		groups[at].Episodes = append(groups[at].Episodes, ep)
	}
	return groups
}
