package scrape

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingPage(names ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>Reports</title></head><body><pre>\n")
	for _, n := range names {
		b.WriteString(`<a href="/Reports/Current/DispatchIS_Reports/` + n + `">` + n + "</a><br>\n")
	}
	// Pad past the minimum-length truncation heuristic.
	b.WriteString(strings.Repeat("<!-- filler -->\n", 40))
	b.WriteString("</pre></body></html>")
	return b.String()
}

func TestScannerList(t *testing.T) {
	page := listingPage(
		"PUBLIC_DISPATCHIS_202508231905_0000000456789012.zip",
		"PUBLIC_DISPATCHIS_202508231910_0000000456789013.zip",
		"PUBLIC_TRADINGIS_202508231900_0000000456789000.zip",
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	files, err := NewScanner(srv.Client()).List(context.Background(), srv.URL, "DISPATCHIS")
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Contains(t, f, "_DISPATCHIS_")
	}
}

func TestScannerList_TruncatedThenComplete(t *testing.T) {
	page := listingPage("PUBLIC_DISPATCHIS_202508231905_0000000456789012.zip")
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(page[:len(page)/2])) // no closing tag
			return
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	files, err := NewScanner(srv.Client()).List(context.Background(), srv.URL, "DISPATCHIS")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, files, 1)
}

func TestScannerList_NoMatchesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage()))
	}))
	defer srv.Close()

	files, err := NewScanner(srv.Client()).List(context.Background(), srv.URL, "STPASA")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestTruncatedHeuristics(t *testing.T) {
	complete := listingPage("PUBLIC_DISPATCHIS_202508231905_01.zip")
	assert.False(t, truncated(complete))

	assert.True(t, truncated("<html><body>short</body></html>"))
	assert.True(t, truncated(strings.Repeat("x", 600)))                       // no closing tag
	assert.True(t, truncated(complete+"..."))                                 // trailing ellipsis
	assert.True(t, truncated(strings.Repeat("y", 600)+"[truncated]</html>")) // visible marker
}

func TestExtractFilenames_UnionAndDedupe(t *testing.T) {
	body := strings.Join([]string{
		`<a href="PUBLIC_DISPATCHIS_202508231905_01.zip">link</a>`,
		`bare text mention: PUBLIC_DISPATCHIS_202508231905_01.zip`,
		`another: PUBLIC_DISPATCHIS_202508231910_02.ZIP`,
	}, "\n")
	files := extractFilenames(body, "DISPATCHIS")
	assert.Len(t, files, 2)
}

func TestLatest(t *testing.T) {
	files := []string{
		"PUBLIC_DISPATCHIS_202508231905_01.zip",
		"PUBLIC_DISPATCHIS_202508231910_02.zip",
		"PUBLIC_DISPATCHIS_202508231900_03.zip",
	}
	assert.Equal(t, "PUBLIC_DISPATCHIS_202508231910_02.zip", Latest(files))
	assert.Equal(t, "", Latest([]string{"no-stamp-here.zip"}))
	assert.Equal(t, "", Latest(nil))
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	f.baseDelay = time.Millisecond
	f.maxDelay = 2 * time.Millisecond

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, 3, calls)
}

func TestFetch_NoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client())
	f.baseDelay = time.Millisecond

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, 1, calls)
}

func zipWith(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTabular_PrefersFamilyMember(t *testing.T) {
	data := zipWith(t, map[string]string{
		"README.txt": "not this one",
		"PUBLIC_DISPATCHIS_202508231905_01.CSV": "C,header\nD,DISPATCH,PRICE,4",
	})
	body, err := ExtractTabular(data, "DISPATCHIS")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "C,header"))
}

func TestExtractTabular_FallsBackToTabularExtension(t *testing.T) {
	data := zipWith(t, map[string]string{
		"report.csv": "I,TRADING,PRICE,3",
	})
	body, err := ExtractTabular(data, "NOSUCHFAMILY")
	require.NoError(t, err)
	assert.Equal(t, "I,TRADING,PRICE,3", body)
}

func TestExtractTabular_RawCSVPassthrough(t *testing.T) {
	raw := []byte("C,NEMP.WORLD\nD,DISPATCH,PRICE,4")
	body, err := ExtractTabular(raw, "DISPATCHIS")
	require.NoError(t, err)
	assert.Equal(t, string(raw), body)
}

func TestExtractTabular_NoTabularMember(t *testing.T) {
	data := zipWith(t, map[string]string{"readme.md": "nothing tabular"})
	_, err := ExtractTabular(data, "DISPATCHIS")
	require.Error(t, err)
}
