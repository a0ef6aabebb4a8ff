package api

import (
	"net/http"

	"github.com/alexivanou/cityshare-api/internal/model"
)

// SearchCities handles GET /api/cities/search
func (h *Handler) SearchCities(w http.ResponseWriter, r *http.Request) {
	filters, err := parseSearchFilters(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.service.SearchCities(r.Context(), filters, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func parseSearchFilters(r *http.Request) (model.CitySearchFilters, error) {
	q := r.URL.Query()
	f := model.CitySearchFilters{
		Query:     q.Get("q"),
		Theme:     q.Get("theme"),
		GameMode:  q.Get("gameMode"),
		Username:  q.Get("username"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	ranges := []struct {
		name string
		dst  **int64
	}{
		{"minPopulation", &f.MinPopulation},
		{"maxPopulation", &f.MaxPopulation},
		{"minMoney", &f.MinMoney},
		{"maxMoney", &f.MaxMoney},
		{"minXp", &f.MinXP},
		{"maxXp", &f.MaxXP},
	}
	for _, rg := range ranges {
		v, err := queryInt64Ptr(r, rg.name)
		if err != nil {
			return f, err
		}
		*rg.dst = v
	}

	var err error
	if f.ContentCreator, err = queryBoolPtr(r, "contentCreator"); err != nil {
		return f, err
	}
	if f.HasImages, err = queryBoolPtr(r, "hasImages"); err != nil {
		return f, err
	}
	return f, nil
}

// RecentCities handles GET /api/cities/recent
func (h *Handler) RecentCities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cities, err := h.service.GetRecentCities(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

// CommunityStats handles GET /api/stats/community
func (h *Handler) CommunityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetCommunityStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// GetCity handles GET /api/v1/cities/{cityId}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "cityId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	detail, err := h.service.GetCityDetail(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

// UserCities handles GET /api/v1/cities?username=
func (h *Handler) UserCities(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetUserCities(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// CreateCity handles POST /api/cities
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request, user *model.User) {
	var in model.CityInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	city, err := h.service.CreateCity(r.Context(), user.ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, city)
}

// UpdateCity handles PUT /api/cities/{id}
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request, user *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in model.CityInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	city, err := h.service.UpdateCity(r.Context(), user.ID, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, city)
}

// DeleteCity handles DELETE /api/cities/{id}
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request, user *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteCity(r.Context(), user.ID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddImage handles POST /api/cities/{id}/images
func (h *Handler) AddImage(w http.ResponseWriter, r *http.Request, user *model.User) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in model.ImageInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	img, err := h.service.AddCityImage(r.Context(), user.ID, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, img)
}

// SetPrimaryImage handles PUT /api/cities/{id}/images/{imageId}/primary.
// The body is optional; the source defaults to an uploaded image.
func (h *Handler) SetPrimaryImage(w http.ResponseWriter, r *http.Request, user *model.User) {
	cityID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	imageID, err := pathID(r, "imageId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req model.SetPrimaryRequest
	if src := r.URL.Query().Get("source"); src != "" {
		req.Source = model.ImageSource(src)
	} else if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	if err := h.service.SetPrimaryImage(r.Context(), user.ID, cityID, imageID, req.Source); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteImage handles DELETE /api/cities/{id}/images/{imageId}
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request, user *model.User) {
	cityID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	imageID, err := pathID(r, "imageId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.DeleteImage(r.Context(), user.ID, cityID, imageID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCreator handles GET /api/v1/hof-creator
func (h *Handler) GetCreator(w http.ResponseWriter, r *http.Request, key *model.APIKey) {
	resp, err := h.service.GetCreatorProfile(r.Context(), key.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// CreateCreatorCity handles POST /api/v1/hof-creator
func (h *Handler) CreateCreatorCity(w http.ResponseWriter, r *http.Request, key *model.APIKey) {
	var in model.CityInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	city, err := h.service.CreateCity(r.Context(), key.UserID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, city)
}
