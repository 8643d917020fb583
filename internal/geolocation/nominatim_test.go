package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "ko", r.URL.Query().Get("accept-language"))
		assert.Equal(t, "37.5665", r.URL.Query().Get("lat"))
		assert.Equal(t, "126.978", r.URL.Query().Get("lon"))
		assert.Contains(t, r.Header.Get("User-Agent"), "zonefinder/")

		_, _ = w.Write([]byte(`{"place_id":1,"display_name":"서울특별시 중구 태평로1가"}`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL)
	address, err := n.Reverse(context.Background(), 37.5665, 126.978)
	require.NoError(t, err)
	assert.Equal(t, "서울특별시 중구 태평로1가", address)
}

func TestNominatimReverseFailures(t *testing.T) {
	t.Run("missing display_name", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
		}))
		defer srv.Close()

		_, err := NewNominatim(srv.URL).Reverse(context.Background(), 0, 0)
		assert.ErrorIs(t, err, ErrNoAddress)
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewNominatim(srv.URL).Reverse(context.Background(), 37.5, 127)
		assert.Error(t, err)
	})
}
