package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chamaai_backend/internal/cache"
	"chamaai_backend/internal/listing"
	"chamaai_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIBGE(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "nome", r.URL.Query().Get("orderBy"))
		switch r.URL.Path {
		case "/estados":
			w.Write([]byte(`[{"id":29,"sigla":"BA","nome":"Bahia"},{"id":35,"sigla":"SP","nome":"São Paulo"}]`))
		case "/estados/35/municipios":
			w.Write([]byte(`[{"id":3509502,"nome":"Campinas"},{"id":3550308,"nome":"São Paulo"}]`))
		case "/estados/99/municipios":
			w.Write([]byte(`{not json`))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_StatesAreCached(t *testing.T) {
	var hits int32
	srv := newIBGE(t, &hits)
	c := NewClient(srv.URL, time.Second, cache.NewMemoryCache(), time.Hour)

	states, err := c.States(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, State{ID: 35, Code: "SP", Name: "São Paulo"}, states[1])

	_, err = c.States(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestClient_Cities(t *testing.T) {
	var hits int32
	srv := newIBGE(t, &hits)
	c := NewClient(srv.URL, time.Second, nil, time.Hour)

	cities, err := c.Cities(context.Background(), 35)
	require.NoError(t, err)
	assert.Equal(t, []City{{ID: 3509502, Name: "Campinas"}, {ID: 3550308, Name: "São Paulo"}}, cities)

	_, err = c.Cities(context.Background(), 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestClient_ErrorClassification(t *testing.T) {
	var hits int32
	srv := newIBGE(t, &hits)
	c := NewClient(srv.URL, time.Second, nil, time.Hour)

	_, err := c.Cities(context.Background(), 12)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeQueryError))
	assert.Equal(t, listing.QueryError, listing.Classify(err))

	_, err = c.Cities(context.Background(), 99)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeQueryError))

	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()

	_, err = NewClient(url, time.Second, nil, time.Hour).States(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNetworkError))
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode)
	assert.Equal(t, listing.NetworkError, listing.Classify(err))
}
