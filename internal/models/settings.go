package models

// RelatedStrategy names the automatic fallback used to fill a video's related list.
type RelatedStrategy string

const (
	StrategyCategory RelatedStrategy = "category"
	StrategyRecent   RelatedStrategy = "recent"
	StrategyPopular  RelatedStrategy = "popular"
)

// Valid reports whether s is one of the known strategies.
func (s RelatedStrategy) Valid() bool {
	switch s {
	case StrategyCategory, StrategyRecent, StrategyPopular:
		return true
	}
	return false
}

const (
	DefaultRelatedVideosCount = 6
	DefaultRelatedStrategy    = StrategyCategory
)

// Settings is the catalog-wide configuration stored alongside the collections.
type Settings struct {
	RelatedVideosCount     int             `json:"related_videos_count"`
	AutoRelated            bool            `json:"auto_related"`
	DefaultRelatedStrategy RelatedStrategy `json:"default_related_strategy"`
}

// DefaultSettings returns the settings used when a document carries none.
func DefaultSettings() Settings {
	return Settings{
		RelatedVideosCount:     DefaultRelatedVideosCount,
		AutoRelated:            true,
		DefaultRelatedStrategy: DefaultRelatedStrategy,
	}
}
