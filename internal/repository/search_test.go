package repository

import (
	"context"
	"testing"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSearch(t *testing.T, repos *Container) (a, b *model.City) {
	t.Helper()
	u := createUser(t, repos, "urban")
	v := createUser(t, repos, "Vera")
	require.NoError(t, repos.User.SetContentCreator(context.Background(), v.ID, true))

	a = createCity(t, repos, u, model.City{Name: "nyc skyline", MapName: "Harbor", Theme: "american", GameMode: "sandbox", Population: 1000, Money: 500, XP: 30})
	b = createCity(t, repos, v, model.City{Name: "Alpine 100%", MapName: "Peaks", Theme: "european", GameMode: "career", Population: 2000, Money: 100, XP: 70})
	return a, b
}

func cityIDs(cities []model.CitySummary) []int64 {
	return lo.Map(cities, func(c model.CitySummary, _ int) int64 { return c.ID })
}

func TestCityRepository_SortScenario(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	a, b := seedSearch(t, repos)

	tests := []struct {
		name    string
		filters model.CitySearchFilters
		want    []int64
	}{
		{"population desc", model.CitySearchFilters{SortBy: model.SortPopulation, SortOrder: "desc"}, []int64{b.ID, a.ID}},
		{"money desc", model.CitySearchFilters{SortBy: model.SortMoney, SortOrder: "desc"}, []int64{a.ID, b.ID}},
		{"xp asc", model.CitySearchFilters{SortBy: model.SortXP, SortOrder: "asc"}, []int64{a.ID, b.ID}},
		{"name default asc", model.CitySearchFilters{SortBy: model.SortName}, []int64{b.ID, a.ID}},
		{"newest", model.CitySearchFilters{SortBy: model.SortNewest}, []int64{b.ID, a.ID}},
		{"oldest ignores order", model.CitySearchFilters{SortBy: model.SortOldest, SortOrder: "desc"}, []int64{a.ID, b.ID}},
		{"unknown falls back to newest", model.CitySearchFilters{SortBy: "bogus"}, []int64{b.ID, a.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cities, err := repos.City.Search(ctx, tt.filters, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cityIDs(cities))
		})
	}
}

func TestCityRepository_CaseInsensitiveSearch(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	a, b := seedSearch(t, repos)

	tests := []struct {
		query string
		want  []int64
	}{
		{"NYC", []int64{a.ID}},
		{"nyc", []int64{a.ID}},
		{"harbor", []int64{a.ID}},
		{"VERA", []int64{b.ID}},
		{"urban@EXAMPLE", []int64{a.ID}},
		{"nyc harbor", []int64{a.ID}},
		{"nyc peaks", []int64{}},
		{"100%", []int64{b.ID}},
		{"%", []int64{b.ID}},
		{"   ", []int64{b.ID, a.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			cities, err := repos.City.Search(ctx, model.CitySearchFilters{Query: tt.query}, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cityIDs(cities))
		})
	}
}

func TestCityRepository_CountMatchesSearch(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	a, _ := seedSearch(t, repos)

	_, err := repos.Image.Add(ctx, &model.CityImage{CityID: a.ID, OriginalURL: "a.png", ThumbnailURL: "a_t.png"})
	require.NoError(t, err)

	grid := []model.CitySearchFilters{
		{},
		{Query: "nyc"},
		{Query: "a"},
		{Query: "zzz"},
		{Theme: "european"},
		{GameMode: "sandbox"},
		{MinPopulation: int64Ptr(1500)},
		{MaxPopulation: int64Ptr(1500)},
		{MinMoney: int64Ptr(100), MaxMoney: int64Ptr(100)},
		{MinXP: int64Ptr(10), MaxXP: int64Ptr(50)},
		{ContentCreator: boolPtr(true)},
		{ContentCreator: boolPtr(false)},
		{HasImages: boolPtr(true)},
		{HasImages: boolPtr(false)},
		{Username: "VERA"},
		{Query: "alpine", ContentCreator: boolPtr(true), HasImages: boolPtr(false), SortBy: model.SortMoney},
	}

	for i, f := range grid {
		cities, err := repos.City.Search(ctx, f, 0, 0)
		require.NoError(t, err)
		count, err := repos.City.CountSearch(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(len(cities)), count, "filter #%d %+v", i, f)
	}
}

func TestCityRepository_EmptyFiltersIdentity(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	u := createUser(t, repos, "pager")
	for i := 0; i < 5; i++ {
		createCity(t, repos, u, model.City{Name: "Town", Population: int64(i)})
	}

	var none model.CitySearchFilters
	explicit := model.CitySearchFilters{SortBy: model.SortNewest, SortOrder: "desc"}

	for _, page := range []struct{ limit, offset int }{{0, 0}, {2, 0}, {2, 2}, {2, 4}, {0, 3}} {
		got, err := repos.City.Search(ctx, none, page.limit, page.offset)
		require.NoError(t, err)
		want, err := repos.City.Search(ctx, explicit, page.limit, page.offset)
		require.NoError(t, err)
		assert.Equal(t, cityIDs(want), cityIDs(got), "limit %d offset %d", page.limit, page.offset)
	}

	page, err := repos.City.Search(ctx, none, 0, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2, "offset without a limit skips rows")
}

func TestCityRepository_SummaryCounters(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	owner := createUser(t, repos, "maker")
	fan := createUser(t, repos, "fan")
	city := createCity(t, repos, owner, model.City{Name: "Counted"})

	_, err := repos.Image.Add(ctx, &model.CityImage{CityID: city.ID, OriginalURL: "o.png", ThumbnailURL: "t.png"})
	require.NoError(t, err)
	_, err = repos.Social.ToggleLike(ctx, fan.ID, city.ID)
	require.NoError(t, err)
	_, err = repos.Social.ToggleFavorite(ctx, fan.ID, city.ID)
	require.NoError(t, err)
	_, err = repos.Comment.Create(ctx, city.ID, fan.ID, "great")
	require.NoError(t, err)

	s, err := repos.City.GetSummary(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "maker", s.Username)
	require.NotNil(t, s.PrimaryImageURL)
	assert.Equal(t, "t.png", *s.PrimaryImageURL)
	assert.Equal(t, int64(1), s.ImageCount)
	assert.Equal(t, int64(1), s.LikeCount)
	assert.Equal(t, int64(1), s.FavoriteCount)
	assert.Equal(t, int64(1), s.CommentCount)

	stats, err := repos.City.CommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CommunityStats{TotalCities: 1, TotalUsers: 2, TotalLikes: 1, TotalComments: 1, TotalImages: 1}, *stats)
}

func TestCityRepository_UpdateDelete(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	owner := createUser(t, repos, "editor")
	city := createCity(t, repos, owner, model.City{Name: "Draft", Downloadable: true})
	assert.True(t, city.Downloadable)

	city.Name = "Final"
	city.Population = 12345
	city.Downloadable = false
	require.NoError(t, repos.City.Update(ctx, city))

	got, err := repos.City.GetByID(ctx, city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Name)
	assert.Equal(t, int64(12345), got.Population)
	assert.False(t, got.Downloadable)

	mine, err := repos.City.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, repos.City.Delete(ctx, city.ID))
	_, err = repos.City.GetByID(ctx, city.ID)
	assert.Error(t, err)
	assert.Error(t, repos.City.Delete(ctx, city.ID))
}

func TestCityRepository_CreateNotifiesFollowers(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()
	author := createUser(t, repos, "author")
	reader := createUser(t, repos, "reader")

	_, err := repos.Social.ToggleFollow(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	city := createCity(t, repos, author, model.City{Name: "Fresh"})

	notes, err := repos.Notification.List(ctx, reader.ID, 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationNewCity, notes[0].Type)
	require.NotNil(t, notes[0].CityID)
	assert.Equal(t, city.ID, *notes[0].CityID)
	assert.Contains(t, notes[0].Message, "Fresh")
}

func TestBuildOrderBy(t *testing.T) {
	tests := []struct {
		sortBy, order, want string
	}{
		{"", "", " ORDER BY c.uploaded_at DESC, c.id DESC"},
		{model.SortPopulation, "ASC", " ORDER BY c.population ASC, c.id ASC"},
		{model.SortName, "", " ORDER BY LOWER(c.name) ASC, c.id ASC"},
		{model.SortOldest, "desc", " ORDER BY c.uploaded_at ASC, c.id ASC"},
		{"population; DROP TABLE cities", "desc", " ORDER BY c.uploaded_at DESC, c.id DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildOrderBy(tt.sortBy, tt.order))
	}

	assert.True(t, IsValidSort("", ""))
	assert.True(t, IsValidSort(model.SortXP, "Desc"))
	assert.False(t, IsValidSort("rating", ""))
	assert.False(t, IsValidSort(model.SortXP, "sideways"))
}

func TestBuildCityFilter_Empty(t *testing.T) {
	where, args := buildCityFilter(model.CitySearchFilters{Query: "  \t "})
	assert.Empty(t, where)
	assert.Empty(t, args)
}
