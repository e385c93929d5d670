// Package catalog holds the read-side logic over a catalog Document:
// lookups, filters, search and related-video selection. Everything here is
// pure and safe to call concurrently on a snapshot.
package catalog

import (
	"sort"

	"vc7day/internal/models"
)

// SelectRelated returns the videos shown next to current. Manually curated
// ids come first in their listed order; when settings.AutoRelated is set and
// room remains, the configured strategy fills the rest. Dangling ids, the
// current video and repeats are skipped, and the result never exceeds
// settings.RelatedVideosCount.
func SelectRelated(current models.Video, all []models.Video, settings models.Settings) []models.Video {
	limit := settings.RelatedVideosCount
	if limit <= 0 {
		return []models.Video{}
	}

	index := make(map[int]int, len(all))
	for i, v := range all {
		if _, ok := index[v.ID]; !ok {
			index[v.ID] = i
		}
	}

	result := make([]models.Video, 0, limit)
	seen := map[int]struct{}{current.ID: {}}
	add := func(v models.Video) bool {
		if _, dup := seen[v.ID]; dup {
			return len(result) < limit
		}
		seen[v.ID] = struct{}{}
		result = append(result, v)
		return len(result) < limit
	}

	for _, id := range current.RelatedVideos {
		i, ok := index[id]
		if !ok {
			continue
		}
		if !add(all[i]) {
			return result
		}
	}

	if !settings.AutoRelated {
		return result
	}

	for _, v := range fallbackCandidates(current, all, seen, settings.DefaultRelatedStrategy) {
		if !add(v) {
			break
		}
	}
	return result
}

// fallbackCandidates lists the videos the strategy would append, excluding
// everything already in seen, in the strategy's order.
func fallbackCandidates(current models.Video, all []models.Video, seen map[int]struct{}, strategy models.RelatedStrategy) []models.Video {
	candidates := make([]models.Video, 0, len(all))
	for _, v := range all {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		if strategy == models.StrategyCategory && v.CategoryID != current.CategoryID {
			continue
		}
		candidates = append(candidates, v)
	}

	switch strategy {
	case models.StrategyCategory:
	case models.StrategyRecent:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt.Time)
		})
	case models.StrategyPopular:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Views > candidates[j].Views
		})
	default:
		return nil
	}
	return candidates
}
