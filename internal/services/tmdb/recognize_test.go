package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

func testClient(baseURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Client{
		baseURL:    baseURL,
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      cache.New(30*time.Minute, 10*time.Minute),
		logger:     logger,
	}
}

func apiServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/search/tv":
			fmt.Fprint(w, `{"results":[
				{"id":100,"name":"Foe","poster_path":"/foe.jpg"},
				{"id":101,"name":"Foo","poster_path":"/foo.jpg"}
			]}`)
		case "/tv/101":
			fmt.Fprint(w, `{"id":101,"name":"Foo","poster_path":"/foo.jpg","seasons":[
				{"season_number":1,"episode_count":8},
				{"season_number":2,"episode_count":10}
			]}`)
		case "/search/movie":
			fmt.Fprint(w, `{"results":[{"id":200,"title":"Arrival","poster_path":"/arrival.jpg"}]}`)
		case "/movie/200":
			fmt.Fprint(w, `{"id":200,"title":"Arrival","poster_path":"/arrival.jpg"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status_message":"The resource you requested could not be found."}`)
		}
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestRecognizeShowBySearch(t *testing.T) {
	server, _ := apiServer(t)
	client := testClient(server.URL)

	info, err := client.Recognize(context.Background(), "Foo", models.MediaTypeTV, "")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if info.TmdbID != "101" || info.Title != "Foo" {
		t.Errorf("Closest match should win, got %+v", info)
	}
	if info.EpisodeCount(1) != 8 || info.EpisodeCount(2) != 10 {
		t.Errorf("Season episode counts not resolved: %+v", info.SeasonEpisodes)
	}
	if info.EpisodeCount(3) != 0 {
		t.Error("Unknown season should report 0 episodes")
	}
}

func TestRecognizeMovieByID(t *testing.T) {
	server, _ := apiServer(t)
	client := testClient(server.URL)

	info, err := client.Recognize(context.Background(), "Arrival", models.MediaTypeMovie, "200")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if info.TmdbID != "200" || info.Kind != models.MediaTypeMovie {
		t.Errorf("Unexpected media info: %+v", info)
	}
}

func TestRecognizeConstrainedLookupDoesNotFallBack(t *testing.T) {
	server, _ := apiServer(t)
	client := testClient(server.URL)

	// The id is wrong and a title search would succeed; the constrained
	// lookup must still fail so the caller decides whether to retry.
	if _, err := client.Recognize(context.Background(), "Arrival", models.MediaTypeMovie, "999"); err == nil {
		t.Fatal("Expected error for unknown tmdb id")
	}
}

func TestRecognizeCachesResults(t *testing.T) {
	server, requests := apiServer(t)
	client := testClient(server.URL)

	if _, err := client.Recognize(context.Background(), "Arrival", models.MediaTypeMovie, "200"); err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	after := *requests
	if _, err := client.Recognize(context.Background(), "Arrival", models.MediaTypeMovie, "200"); err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if *requests != after {
		t.Errorf("Second identical lookup should be served from cache, requests went %d -> %d", after, *requests)
	}
}

func TestRecognizeNoSearchResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	t.Cleanup(server.Close)
	client := testClient(server.URL)

	if _, err := client.Recognize(context.Background(), "Nonexistent", models.MediaTypeMovie, ""); err == nil {
		t.Fatal("Expected error when the search returns nothing")
	}
}

func TestBestMatch(t *testing.T) {
	results := []searchResult{
		{ID: 1, Name: "Breaking Bald"},
		{ID: 2, Name: "Breaking Bad"},
		{ID: 3, Name: "Breaking"},
	}
	if got := bestMatch("Breaking Bad", results); got.ID != 2 {
		t.Errorf("bestMatch picked id %d, want 2", got.ID)
	}

	// Ties go to the earlier, higher ranked result
	tied := []searchResult{
		{ID: 1, Name: "Fooa"},
		{ID: 2, Name: "Foob"},
	}
	if got := bestMatch("Foo", tied); got.ID != 1 {
		t.Errorf("Tie should keep the first result, got id %d", got.ID)
	}
}
