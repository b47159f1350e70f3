package atlas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsatlas/internal/errors"
)

func TestPlaces(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"community_areas": [
				{"id": 1, "slug": "albany-park", "name": "Albany Park", "geo_type": "CA",
				 "geometry": {"type": "MultiPolygon", "coordinates": []}},
				{"id": 2, "slug": "montclare", "name": "Montclare", "geo_type": "CA"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	areas, err := client.Places(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/places", gotPath)
	assert.Equal(t, "application/json", gotAccept)

	require.Len(t, areas, 2)
	assert.Equal(t, "albany-park", areas[0].Slug)
	assert.Equal(t, "Albany Park", areas[0].Name)
	assert.Equal(t, "CA", areas[0].GeoType)
	assert.NotEmpty(t, areas[0].Geometry)
	assert.Empty(t, areas[1].Geometry)
}

func TestTopicInfo(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"area_data": [
				{"number": 51542, "weight_percent": 4.5},
				{"number": 51000}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	data, err := client.TopicInfo(context.Background(), "albany-park", "total-population")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/topic_info/albany-park/total-population", gotPath)

	require.Len(t, data, 2)
	require.NotNil(t, data[0].Number)
	assert.Equal(t, 51542.0, *data[0].Number)
	require.NotNil(t, data[0].WeightPercent)
	assert.Equal(t, 4.5, *data[0].WeightPercent)
	assert.Nil(t, data[1].WeightPercent, "omitted field decodes as nil")
}

func TestTopicInfoEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"area_data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	data, err := client.TopicInfo(context.Background(), "montclare", "violent-crime")
	require.NoError(t, err, "an empty reading is not an error")
	assert.Empty(t, data)
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	_, err := client.Places(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNetwork))
	assert.Contains(t, err.Error(), "502")
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"community_areas": [`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	_, err := client.Places(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down before the request

	client := NewClient(server.URL, time.Second, nil)
	_, err := client.Places(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNetwork))
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := NewClient(server.URL, 10*time.Second, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Places(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNetwork))
}

func TestBaseURLNormalization(t *testing.T) {
	client := NewClient("https://api.chicagohealthatlas.org", time.Second, nil)
	assert.Equal(t, "https://api.chicagohealthatlas.org/", client.baseURL)

	client = NewClient("https://api.chicagohealthatlas.org/", time.Second, nil)
	assert.Equal(t, "https://api.chicagohealthatlas.org/", client.baseURL)
}
