package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxCityNameLength = 100

type searchArgs struct {
	Filters model.CitySearchFilters `json:"f"`
	Limit   int                     `json:"l"`
	Offset  int                     `json:"o"`
}

// SearchCities returns a page of cities matching filters together with the total match count
func (s *Service) SearchCities(ctx context.Context, filters model.CitySearchFilters, limit, offset int) (*model.SearchResponse, error) {
	if !repository.IsValidSort(filters.SortBy, filters.SortOrder) {
		return nil, apperror.ValidationFailed("sortBy", fmt.Sprintf("unsupported sort %q %q", filters.SortBy, filters.SortOrder))
	}
	if err := validateRanges(filters); err != nil {
		return nil, err
	}
	limit, offset = page(limit, offset)

	args := searchArgs{Filters: filters, Limit: limit, Offset: offset}
	return querycache.Load(ctx, s.cache, "searchCities", args, s.ttl.SearchTTL, []string{querycache.TagCities},
		func(ctx context.Context) (*model.SearchResponse, error) {
			var (
				cities []model.CitySummary
				total  int64
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				cities, err = s.repos.City.Search(gctx, filters, limit, offset)
				return err
			})
			g.Go(func() error {
				var err error
				total, err = s.CountSearchCities(gctx, filters)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if cities == nil {
				cities = []model.CitySummary{}
			}
			return &model.SearchResponse{Cities: cities, Total: total, Limit: limit, Offset: offset}, nil
		})
}

// CountSearchCities counts the cities SearchCities would return without pagination
func (s *Service) CountSearchCities(ctx context.Context, filters model.CitySearchFilters) (int64, error) {
	return querycache.Load(ctx, s.cache, "countSearchCities", filters, s.ttl.SearchTTL, []string{querycache.TagCities},
		func(ctx context.Context) (int64, error) {
			return s.repos.City.CountSearch(ctx, filters)
		})
}

// GetRecentCities returns the newest uploads
func (s *Service) GetRecentCities(ctx context.Context, limit int) ([]model.CitySummary, error) {
	limit, _ = page(limit, 0)
	return querycache.Load(ctx, s.cache, "recentCities", limit, s.ttl.ListingTTL, []string{querycache.TagCities},
		func(ctx context.Context) ([]model.CitySummary, error) {
			cities, err := s.repos.City.Search(ctx, model.CitySearchFilters{SortBy: model.SortNewest}, limit, 0)
			if err != nil {
				return nil, err
			}
			if cities == nil {
				cities = []model.CitySummary{}
			}
			return cities, nil
		})
}

// GetCityDetail returns a city with its owner, images and engagement counters
func (s *Service) GetCityDetail(ctx context.Context, id int64) (*model.CityDetail, error) {
	tags := []string{querycache.CityTag(id), querycache.TagUsers}
	return querycache.Load(ctx, s.cache, "cityDetail", id, s.ttl.DetailTTL, tags,
		func(ctx context.Context) (*model.CityDetail, error) {
			summary, err := s.repos.City.GetSummary(ctx, id)
			if err != nil {
				return nil, err
			}
			owner, err := s.repos.User.GetByID(ctx, summary.UserID)
			if err != nil {
				return nil, err
			}

			detail := &model.CityDetail{City: *summary, Owner: owner.Public()}
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				detail.Images, err = s.repos.Image.ListByCity(gctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				detail.HallOfFameImages, err = s.repos.Image.ListHallOfFameByCity(gctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				detail.Stats, err = s.repos.City.Stats(gctx, id)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if detail.Images == nil {
				detail.Images = []model.CityImage{}
			}
			if detail.HallOfFameImages == nil {
				detail.HallOfFameImages = []model.HallOfFameImage{}
			}
			return detail, nil
		})
}

// GetUserCities returns a user's public profile and cities by username
func (s *Service) GetUserCities(ctx context.Context, username string) (*model.UserCitiesResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	return querycache.Load(ctx, s.cache, "userCities", strings.ToLower(username), s.ttl.ListingTTL,
		[]string{querycache.TagCities, querycache.TagUsers},
		func(ctx context.Context) (*model.UserCitiesResponse, error) {
			user, err := s.repos.User.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			return s.userCities(ctx, user)
		})
}

// GetCreatorProfile returns the profile and cities of an API key owner
func (s *Service) GetCreatorProfile(ctx context.Context, userID int64) (*model.UserCitiesResponse, error) {
	return querycache.Load(ctx, s.cache, "creatorProfile", userID, s.ttl.ListingTTL,
		[]string{querycache.UserTag(userID), querycache.TagUsers},
		func(ctx context.Context) (*model.UserCitiesResponse, error) {
			user, err := s.repos.User.GetByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			return s.userCities(ctx, user)
		})
}

func (s *Service) userCities(ctx context.Context, user *model.User) (*model.UserCitiesResponse, error) {
	cities, err := s.repos.City.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []model.CitySummary{}
	}
	return &model.UserCitiesResponse{User: user.Public(), Cities: cities, Total: len(cities)}, nil
}

// CreateCity stores a new city owned by userID
func (s *Service) CreateCity(ctx context.Context, userID int64, in model.CityInput) (*model.City, error) {
	if err := validateCityInput(in); err != nil {
		return nil, err
	}

	city := &model.City{UserID: userID, Downloadable: true}
	applyCityInput(city, in)

	created, err := s.repos.City.Create(ctx, city)
	if err != nil {
		return nil, err
	}
	s.invalidateCity(ctx, created)
	s.logger.Info("city created", zap.Int64("city_id", created.ID), zap.Int64("user_id", userID))
	return created, nil
}

// UpdateCity replaces the writable fields of a city owned by userID
func (s *Service) UpdateCity(ctx context.Context, userID, cityID int64, in model.CityInput) (*model.City, error) {
	if err := validateCityInput(in); err != nil {
		return nil, err
	}
	city, err := s.ownedCity(ctx, userID, cityID)
	if err != nil {
		return nil, err
	}

	applyCityInput(city, in)
	if err := s.repos.City.Update(ctx, city); err != nil {
		return nil, err
	}
	s.invalidateCity(ctx, city)
	return s.repos.City.GetByID(ctx, cityID)
}

// DeleteCity removes a city owned by userID with its images, likes, favorites and comments
func (s *Service) DeleteCity(ctx context.Context, userID, cityID int64) error {
	city, err := s.ownedCity(ctx, userID, cityID)
	if err != nil {
		return err
	}
	if err := s.repos.City.Delete(ctx, cityID); err != nil {
		return err
	}
	s.invalidateCity(ctx, city)
	s.invalidate(ctx, querycache.CommentsTag(cityID))
	return nil
}

// AddCityImage attaches an uploaded image to a city owned by userID
func (s *Service) AddCityImage(ctx context.Context, userID, cityID int64, in model.ImageInput) (*model.CityImage, error) {
	if strings.TrimSpace(in.OriginalURL) == "" {
		return nil, apperror.ValidationFailed("originalUrl", "originalUrl is required")
	}
	if _, err := s.ownedCity(ctx, userID, cityID); err != nil {
		return nil, err
	}

	img := &model.CityImage{
		CityID:       cityID,
		OriginalURL:  in.OriginalURL,
		LargeURL:     orDefault(in.LargeURL, in.OriginalURL),
		MediumURL:    orDefault(in.MediumURL, in.OriginalURL),
		ThumbnailURL: orDefault(in.ThumbnailURL, in.OriginalURL),
		FileSize:     in.FileSize,
		MimeType:     in.MimeType,
	}
	added, err := s.repos.Image.Add(ctx, img)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, querycache.CityTag(cityID), querycache.TagCities)
	return added, nil
}

// SetPrimaryImage makes an image the only primary image of a city owned by userID
func (s *Service) SetPrimaryImage(ctx context.Context, userID, cityID, imageID int64, source model.ImageSource) error {
	if source == "" {
		source = model.ImageSourceUpload
	}
	if !source.Valid() {
		return apperror.ValidationFailed("source", fmt.Sprintf("unknown image source %q", source))
	}
	if _, err := s.ownedCity(ctx, userID, cityID); err != nil {
		return err
	}
	if err := s.repos.Image.SetPrimary(ctx, cityID, imageID, source); err != nil {
		return err
	}
	s.invalidate(ctx, querycache.CityTag(cityID), querycache.TagCities)
	return nil
}

// DeleteImage removes an uploaded image of a city owned by userID
func (s *Service) DeleteImage(ctx context.Context, userID, cityID, imageID int64) error {
	if _, err := s.ownedCity(ctx, userID, cityID); err != nil {
		return err
	}
	if _, err := s.repos.Image.Delete(ctx, cityID, imageID); err != nil {
		return err
	}
	s.invalidate(ctx, querycache.CityTag(cityID), querycache.TagCities)
	return nil
}

// GetCommunityStats returns site-wide totals
func (s *Service) GetCommunityStats(ctx context.Context) (*model.CommunityStats, error) {
	return querycache.Load(ctx, s.cache, "communityStats", nil, s.ttl.StatsTTL, []string{querycache.TagStats},
		func(ctx context.Context) (*model.CommunityStats, error) {
			return s.repos.City.CommunityStats(ctx)
		})
}

// WarmCache preloads the queries behind the landing page
func (s *Service) WarmCache(ctx context.Context) error {
	if _, err := s.GetCommunityStats(ctx); err != nil {
		return fmt.Errorf("failed to warm community stats: %w", err)
	}
	if _, err := s.GetRecentCities(ctx, defaultPageSize); err != nil {
		return fmt.Errorf("failed to warm recent cities: %w", err)
	}
	if _, err := s.SearchCities(ctx, model.CitySearchFilters{}, defaultPageSize, 0); err != nil {
		return fmt.Errorf("failed to warm search: %w", err)
	}
	return nil
}

// ownedCity loads a city and checks that userID owns it
func (s *Service) ownedCity(ctx context.Context, userID, cityID int64) (*model.City, error) {
	city, err := s.repos.City.GetByID(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if city.UserID != userID {
		return nil, apperror.Forbidden("you do not own this city")
	}
	return city, nil
}

func (s *Service) invalidateCity(ctx context.Context, c *model.City) {
	s.invalidate(ctx, querycache.TagCities, querycache.CityTag(c.ID), querycache.UserTag(c.UserID), querycache.TagStats)
}

func validateCityInput(in model.CityInput) error {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return apperror.ValidationFailed("name", "name is required")
	case len(name) > maxCityNameLength:
		return apperror.ValidationFailed("name", fmt.Sprintf("name must be at most %d characters", maxCityNameLength))
	case in.Population < 0:
		return apperror.ValidationFailed("population", "population must not be negative")
	case in.XP < 0:
		return apperror.ValidationFailed("xp", "xp must not be negative")
	case in.FileSize < 0:
		return apperror.ValidationFailed("fileSize", "fileSize must not be negative")
	}
	return nil
}

func validateRanges(f model.CitySearchFilters) error {
	bad := func(min, max *int64) bool { return min != nil && max != nil && *min > *max }
	switch {
	case bad(f.MinPopulation, f.MaxPopulation):
		return apperror.ValidationFailed("minPopulation", "minPopulation exceeds maxPopulation")
	case bad(f.MinMoney, f.MaxMoney):
		return apperror.ValidationFailed("minMoney", "minMoney exceeds maxMoney")
	case bad(f.MinXP, f.MaxXP):
		return apperror.ValidationFailed("minXp", "minXp exceeds maxXp")
	}
	return nil
}

func applyCityInput(c *model.City, in model.CityInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.MapName = in.MapName
	c.Theme = in.Theme
	c.GameMode = in.GameMode
	c.Population = in.Population
	c.Money = in.Money
	c.XP = in.XP
	c.UnlimitedMoney = in.UnlimitedMoney
	c.UnlimitedXP = in.UnlimitedXP
	c.FilePath = in.FilePath
	c.FileSize = in.FileSize
	c.Description = in.Description
	if in.Downloadable != nil {
		c.Downloadable = *in.Downloadable
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
