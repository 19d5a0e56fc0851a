package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/patrickmn/go-cache"
)

// searchResult is one entry of a TMDB search response.
// Movies populate Title, TV shows populate Name.
type searchResult struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

func (r searchResult) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Title
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type tvDetail struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PosterPath string `json:"poster_path"`
	Seasons    []struct {
		SeasonNumber int `json:"season_number"`
		EpisodeCount int `json:"episode_count"`
	} `json:"seasons"`
}

type movieDetail struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// Recognize resolves a canonical title to media metadata. A provided tmdb id
// constrains the lookup to that exact entry; without one the title is
// searched and the closest match wins. Results are cached.
func (c *Client) Recognize(ctx context.Context, title string, kind models.MediaType, tmdbID string) (*models.MediaInfo, error) {
	cacheKey := fmt.Sprintf("%s:%s:%s", kind, title, tmdbID)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*models.MediaInfo), nil
	}

	info, err := c.recognize(ctx, title, kind, tmdbID)
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, info, cache.DefaultExpiration)
	return info, nil
}

func (c *Client) recognize(ctx context.Context, title string, kind models.MediaType, tmdbID string) (*models.MediaInfo, error) {
	if tmdbID != "" {
		return c.lookupByID(ctx, kind, tmdbID)
	}

	return c.searchByTitle(ctx, title, kind)
}

// lookupByID fetches metadata for a known TMDB id
func (c *Client) lookupByID(ctx context.Context, kind models.MediaType, tmdbID string) (*models.MediaInfo, error) {
	if kind == models.MediaTypeTV {
		var detail tvDetail
		if err := c.get(ctx, "/tv/"+tmdbID, nil, &detail); err != nil {
			return nil, err
		}
		return tvInfo(&detail), nil
	}

	var detail movieDetail
	if err := c.get(ctx, "/movie/"+tmdbID, nil, &detail); err != nil {
		return nil, err
	}

	return &models.MediaInfo{
		Title:  detail.Title,
		TmdbID: strconv.Itoa(detail.ID),
		Kind:   models.MediaTypeMovie,
		Poster: detail.PosterPath,
	}, nil
}

// searchByTitle searches TMDB and picks the closest match by edit distance
func (c *Client) searchByTitle(ctx context.Context, title string, kind models.MediaType) (*models.MediaInfo, error) {
	path := "/search/movie"
	if kind == models.MediaTypeTV {
		path = "/search/tv"
	}

	params := url.Values{}
	params.Set("query", title)

	var response searchResponse
	if err := c.get(ctx, path, params, &response); err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		return nil, fmt.Errorf("no TMDB match for %q", title)
	}

	best := bestMatch(title, response.Results)

	if kind == models.MediaTypeTV {
		// Fetch the detail record for per-season episode counts
		return c.lookupByID(ctx, kind, strconv.Itoa(best.ID))
	}

	return &models.MediaInfo{
		Title:  best.displayName(),
		TmdbID: strconv.Itoa(best.ID),
		Kind:   models.MediaTypeMovie,
		Poster: best.PosterPath,
	}, nil
}

// bestMatch returns the search result whose name is closest to the queried
// title by Levenshtein distance, ties going to the earlier (higher ranked)
// result.
func bestMatch(title string, results []searchResult) searchResult {
	query := strings.ToLower(title)

	best := results[0]
	bestDistance := levenshtein.ComputeDistance(query, strings.ToLower(best.displayName()))

	for _, result := range results[1:] {
		distance := levenshtein.ComputeDistance(query, strings.ToLower(result.displayName()))
		if distance < bestDistance {
			best = result
			bestDistance = distance
		}
	}

	return best
}

func tvInfo(detail *tvDetail) *models.MediaInfo {
	episodes := make(map[int]int, len(detail.Seasons))
	for _, season := range detail.Seasons {
		episodes[season.SeasonNumber] = season.EpisodeCount
	}

	return &models.MediaInfo{
		Title:          detail.Name,
		TmdbID:         strconv.Itoa(detail.ID),
		Kind:           models.MediaTypeTV,
		Poster:         detail.PosterPath,
		SeasonEpisodes: episodes,
	}
}
