package repository

import (
	"strings"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/samber/lo"
)

// summarySelect joins a city with its owner and the counters shown in listings
const summarySelect = `
	SELECT
		c.id, c.user_id, c.name, c.map_name, c.theme, c.game_mode, c.population, c.money, c.xp,
		c.unlimited_money, c.unlimited_xp, c.file_path, c.file_size, c.description, c.downloadable,
		c.download_count, c.uploaded_at, c.updated_at,
		u.username, u.is_content_creator,
		COALESCE(
			(SELECT ci.thumbnail_url FROM city_images ci WHERE ci.city_id = c.id AND ci.is_primary = TRUE LIMIT 1),
			(SELECT h.image_url_thumbnail FROM hall_of_fame_cache h WHERE h.city_id = c.id AND h.is_primary = TRUE LIMIT 1)
		) AS primary_image_url,
		(SELECT COUNT(*) FROM city_images ci WHERE ci.city_id = c.id) AS image_count,
		(SELECT COUNT(*) FROM comments cm WHERE cm.city_id = c.id) AS comment_count,
		(SELECT COUNT(*) FROM likes l WHERE l.city_id = c.id) AS like_count,
		(SELECT COUNT(*) FROM favorites f WHERE f.city_id = c.id) AS favorite_count
	FROM cities c
	JOIN users u ON u.id = c.user_id`

const hasImagesPredicate = `(EXISTS (SELECT 1 FROM city_images ci WHERE ci.city_id = c.id)
	OR EXISTS (SELECT 1 FROM hall_of_fame_cache h WHERE h.city_id = c.id))`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchWords lowercases q and splits it on whitespace, dropping repeated words
func searchWords(q string) []string {
	return lo.Uniq(strings.Fields(strings.ToLower(q)))
}

// buildCityFilter is the single predicate shared by the search and count queries.
// It returns a WHERE clause with ? placeholders (or "") and its arguments.
func buildCityFilter(f model.CitySearchFilters) (string, []any) {
	var clauses []string
	var args []any

	for _, word := range searchWords(f.Query) {
		pattern := "%" + likeEscaper.Replace(word) + "%"
		clauses = append(clauses, `(LOWER(c.name) LIKE ? ESCAPE '\'
			OR LOWER(c.map_name) LIKE ? ESCAPE '\'
			OR LOWER(u.username) LIKE ? ESCAPE '\'
			OR LOWER(u.email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if f.Theme != "" {
		clauses = append(clauses, "c.theme = ?")
		args = append(args, f.Theme)
	}
	if f.GameMode != "" {
		clauses = append(clauses, "c.game_mode = ?")
		args = append(args, f.GameMode)
	}

	ranges := []struct {
		value *int64
		expr  string
	}{
		{f.MinPopulation, "c.population >= ?"},
		{f.MaxPopulation, "c.population <= ?"},
		{f.MinMoney, "c.money >= ?"},
		{f.MaxMoney, "c.money <= ?"},
		{f.MinXP, "c.xp >= ?"},
		{f.MaxXP, "c.xp <= ?"},
	}
	for _, rg := range ranges {
		if rg.value != nil {
			clauses = append(clauses, rg.expr)
			args = append(args, *rg.value)
		}
	}

	if f.ContentCreator != nil {
		clauses = append(clauses, "u.is_content_creator = ?")
		args = append(args, *f.ContentCreator)
	}
	if f.HasImages != nil {
		if *f.HasImages {
			clauses = append(clauses, hasImagesPredicate)
		} else {
			clauses = append(clauses, "NOT "+hasImagesPredicate)
		}
	}
	if f.Username != "" {
		clauses = append(clauses, "LOWER(u.username) = ?")
		args = append(args, strings.ToLower(f.Username))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type sortColumn struct {
	expr        string
	defaultDesc bool
	fixed       bool // direction implied by the sort name
}

var sortFields = map[string]sortColumn{
	model.SortNewest:     {expr: "c.uploaded_at", defaultDesc: true, fixed: true},
	model.SortOldest:     {expr: "c.uploaded_at", defaultDesc: false, fixed: true},
	model.SortPopulation: {expr: "c.population", defaultDesc: true},
	model.SortMoney:      {expr: "c.money", defaultDesc: true},
	model.SortXP:         {expr: "c.xp", defaultDesc: true},
	model.SortName:       {expr: "LOWER(c.name)", defaultDesc: false},
}

// IsValidSort reports whether sortBy and sortOrder are accepted; empty values select the default
func IsValidSort(sortBy, sortOrder string) bool {
	if _, ok := sortFields[sortBy]; sortBy != "" && !ok {
		return false
	}
	switch strings.ToLower(sortOrder) {
	case "", "asc", "desc":
		return true
	}
	return false
}

// buildOrderBy maps a whitelisted sort onto an ORDER BY clause with the id as tiebreaker
func buildOrderBy(sortBy, sortOrder string) string {
	col, ok := sortFields[sortBy]
	if !ok {
		col = sortFields[model.SortNewest]
	}

	desc := col.defaultDesc
	if !col.fixed {
		switch strings.ToLower(sortOrder) {
		case "asc":
			desc = false
		case "desc":
			desc = true
		}
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + col.expr + " " + dir + ", c.id " + dir
}
