package guru

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamazuxa/tender/pkg/logger"
)

func newDirectoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("mode") {
		case "eauc":
			w.Write([]byte(`{"Items":[{"ID":"1","Name":"Сбербанк-АСТ","Url":"sberbank-ast.ru"}]}`))
		case "eauc_rgi":
			w.Write([]byte(`{"Items":[{"ID":"2","Name":"B2B-Center","Url":"b2b-center.ru"}]}`))
		default:
			w.Write([]byte(`{"Items":[]}`))
		}
	}))
}

func TestPlatformsLoadedOnce(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"Items":[{"ID":"1","Name":"Площадка","Url":"example.ru"}]}`))
	}))
	defer srv.Close()

	d := NewPlatformDirectory(NewClient(srv.URL, "key", logger.NewTestLogger()), logger.NewTestLogger())

	first, err := d.Platforms(context.Background())
	require.NoError(t, err)
	second, err := d.Platforms(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// One request per directory mode, and only on the first call.
	assert.Equal(t, len(platformModes), hits)
}

func TestResolveViaDirectory(t *testing.T) {
	srv := newDirectoryServer(t)
	defer srv.Close()

	d := NewPlatformDirectory(NewClient(srv.URL, "key", logger.NewTestLogger()), logger.NewTestLogger())

	reg, platform, err := d.Resolve(context.Background(),
		"https://www.b2b-center.ru/market/?action=show&tenderid=123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456789", reg)
	assert.Equal(t, "B2B-Center", platform)
}

func TestResolveKnownHostPattern(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Items":[]}`))
	}))
	defer srv.Close()

	d := NewPlatformDirectory(NewClient(srv.URL, "key", logger.NewTestLogger()), logger.NewTestLogger())

	reg, platform, err := d.Resolve(context.Background(),
		"https://www.roseltorg.ru/procedure/auction/view/procedure-cards/987654321")
	require.NoError(t, err)
	assert.Equal(t, "987654321", reg)
	assert.Equal(t, "roseltorg.ru", platform)
}

func TestResolveZakupkiQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Items":[]}`))
	}))
	defer srv.Close()

	d := NewPlatformDirectory(NewClient(srv.URL, "key", logger.NewTestLogger()), logger.NewTestLogger())

	reg, platform, err := d.Resolve(context.Background(),
		"https://zakupki.gov.ru/epz/order/notice/ea44/view/common-info.html?regNumber=0123456789012345678")
	require.NoError(t, err)
	assert.Equal(t, "0123456789012345678", reg)
	assert.Equal(t, "zakupki.gov.ru", platform)
}

func TestResolveUnknownURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Items":[]}`))
	}))
	defer srv.Close()

	d := NewPlatformDirectory(NewClient(srv.URL, "key", logger.NewTestLogger()), logger.NewTestLogger())

	_, _, err := d.Resolve(context.Background(), "https://example.com/nothing-here")
	assert.Error(t, err)

	_, _, err = d.Resolve(context.Background(), "")
	assert.Error(t, err)
}
