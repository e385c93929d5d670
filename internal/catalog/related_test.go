package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vc7day/internal/models"
)

func ids(videos []models.Video) []int {
	out := make([]int, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}

func at(day int) models.Timestamp {
	return models.NewTimestamp(time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC))
}

func scenarioCatalog() []models.Video {
	return []models.Video{
		{ID: 1, CategoryID: 3, Views: 10, RelatedVideos: []int{}},
		{ID: 2, CategoryID: 3, Views: 50},
		{ID: 3, CategoryID: 4, Views: 5},
	}
}

func TestSelectRelated_Strategies(t *testing.T) {
	all := scenarioCatalog()

	tests := []struct {
		name     string
		settings models.Settings
		want     []int
	}{
		{
			name:     "popular orders by views",
			settings: models.Settings{RelatedVideosCount: 2, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular},
			want:     []int{2, 3},
		},
		{
			name:     "category keeps same category only",
			settings: models.Settings{RelatedVideosCount: 2, AutoRelated: true, DefaultRelatedStrategy: models.StrategyCategory},
			want:     []int{2},
		},
		{
			name:     "auto related disabled",
			settings: models.Settings{RelatedVideosCount: 2, AutoRelated: false, DefaultRelatedStrategy: models.StrategyPopular},
			want:     []int{},
		},
		{
			name:     "zero count",
			settings: models.Settings{RelatedVideosCount: 0, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular},
			want:     []int{},
		},
		{
			name:     "negative count",
			settings: models.Settings{RelatedVideosCount: -3, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular},
			want:     []int{},
		},
		{
			name:     "unknown strategy adds nothing",
			settings: models.Settings{RelatedVideosCount: 2, AutoRelated: true, DefaultRelatedStrategy: "trending"},
			want:     []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRelated(all[0], all, tt.settings)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelectRelated_RecentUsesCreatedAtWithStableTies(t *testing.T) {
	all := []models.Video{
		{ID: 1, CreatedAt: at(1)},
		{ID: 2, CreatedAt: at(2)},
		{ID: 3, CreatedAt: at(5)},
		{ID: 4, CreatedAt: at(2)},
		{ID: 5, CreatedAt: at(3)},
	}
	settings := models.Settings{RelatedVideosCount: 10, AutoRelated: true, DefaultRelatedStrategy: models.StrategyRecent}

	assert.Equal(t, []int{3, 5, 2, 4}, ids(SelectRelated(all[0], all, settings)))
}

func TestSelectRelated_ManualFirstThenFallback(t *testing.T) {
	all := []models.Video{
		{ID: 1, CategoryID: 1, RelatedVideos: []int{4, 1, 99, 4, 2}},
		{ID: 2, CategoryID: 2, Views: 1},
		{ID: 3, CategoryID: 1, Views: 7},
		{ID: 4, CategoryID: 2, Views: 3},
		{ID: 5, CategoryID: 1, Views: 9},
	}

	category := models.Settings{RelatedVideosCount: 10, AutoRelated: true, DefaultRelatedStrategy: models.StrategyCategory}
	assert.Equal(t, []int{4, 2, 3, 5}, ids(SelectRelated(all[0], all, category)))

	popular := models.Settings{RelatedVideosCount: 3, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular}
	assert.Equal(t, []int{4, 2, 5}, ids(SelectRelated(all[0], all, popular)))

	manualOnly := models.Settings{RelatedVideosCount: 1, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular}
	assert.Equal(t, []int{4}, ids(SelectRelated(all[0], all, manualOnly)))
}

func TestSelectRelated_Properties(t *testing.T) {
	all := []models.Video{
		{ID: 1, CategoryID: 1, Views: 3, RelatedVideos: []int{1, 42, 3, 3}, CreatedAt: at(4)},
		{ID: 2, CategoryID: 1, Views: 8, CreatedAt: at(3)},
		{ID: 3, CategoryID: 2, Views: 8, CreatedAt: at(9)},
		{ID: 4, CategoryID: 1, Views: 1, CreatedAt: at(1)},
		{ID: 5, CategoryID: 2, Views: 0, CreatedAt: at(7)},
	}
	known := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}

	strategies := []models.RelatedStrategy{models.StrategyCategory, models.StrategyRecent, models.StrategyPopular}
	for _, strategy := range strategies {
		for count := -1; count <= 6; count++ {
			settings := models.Settings{RelatedVideosCount: count, AutoRelated: true, DefaultRelatedStrategy: strategy}
			first := SelectRelated(all[0], all, settings)
			second := SelectRelated(all[0], all, settings)

			assert.Equal(t, first, second, "selection must be deterministic")
			assert.LessOrEqual(t, len(first), max(count, 0))

			seen := map[int]bool{}
			for _, v := range first {
				assert.NotEqual(t, 1, v.ID, "current video must never be related")
				assert.True(t, known[v.ID], "dangling id %d leaked", v.ID)
				assert.False(t, seen[v.ID], "duplicate id %d", v.ID)
				seen[v.ID] = true
			}
		}
	}
}

func TestSelectRelated_OnlyCurrentVideo(t *testing.T) {
	only := models.Video{ID: 7, RelatedVideos: []int{7, 8}}
	settings := models.DefaultSettings()

	assert.Empty(t, SelectRelated(only, []models.Video{only}, settings))
}
