package model

// Sort fields accepted by city search
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortPopulation = "population"
	SortMoney      = "money"
	SortXP         = "xp"
	SortName       = "name"
)

// CitySearchFilters narrows and orders a city search. The zero value matches every city,
// newest first.
type CitySearchFilters struct {
	Query          string `json:"query,omitempty"`
	Theme          string `json:"theme,omitempty"`
	GameMode       string `json:"gameMode,omitempty"`
	MinPopulation  *int64 `json:"minPopulation,omitempty"`
	MaxPopulation  *int64 `json:"maxPopulation,omitempty"`
	MinMoney       *int64 `json:"minMoney,omitempty"`
	MaxMoney       *int64 `json:"maxMoney,omitempty"`
	MinXP          *int64 `json:"minXp,omitempty"`
	MaxXP          *int64 `json:"maxXp,omitempty"`
	ContentCreator *bool  `json:"contentCreator,omitempty"`
	HasImages      *bool  `json:"hasImages,omitempty"`
	Username       string `json:"username,omitempty"`
	SortBy         string `json:"sortBy,omitempty"`
	SortOrder      string `json:"sortOrder,omitempty"`
}

// SearchResponse is a page of search results
type SearchResponse struct {
	Cities []CitySummary `json:"cities"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// UserCitiesResponse is returned by GET /api/v1/cities
type UserCitiesResponse struct {
	User   PublicUser    `json:"user"`
	Cities []CitySummary `json:"cities"`
	Total  int           `json:"total"`
}
