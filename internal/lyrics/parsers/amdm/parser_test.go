package amdm

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<h1>Песня</h1>
<pre itemprop="chordsBlock" class="field__podbor_new podbor__text"><div class="podbor__keyword">[Вступление]:</div><div class="podbor__chord" data-chord="Am">Am</div>
<div class="podbor__keyword">[Куплет 1]:</div>
Я иду по улице <span class="podbor__author-comment">/* тихо */</span>
<div class="podbor__chord">C</div>И пою /* x */
<div class="podbor__keyword">[Припев]:</div>
Ла-ла-ла | |
</pre></body></html>`

func TestExtractFromHTML(t *testing.T) {
	t.Run("keeps section markers", func(t *testing.T) {
		text, err := NewParser().ExtractFromHTML(samplePage)
		require.NoError(t, err)
		assert.Equal(t, "[Вступление]\n\n[Куплет 1]\nЯ иду по улице\nИ пою\n\n[Припев]\nЛа-ла-ла", text)
	})

	t.Run("dropped sections", func(t *testing.T) {
		text, err := NewParser(WithDroppedSections(SectionIntro)).ExtractFromHTML(samplePage)
		require.NoError(t, err)
		assert.Equal(t, "[Куплет 1]\nЯ иду по улице\nИ пою\n\n[Припев]\nЛа-ла-ла", text)
	})

	t.Run("keep bars", func(t *testing.T) {
		text, err := NewParser(WithKeepBars()).ExtractFromHTML(samplePage)
		require.NoError(t, err)
		assert.Contains(t, text, "[Припев]\nЛа-ла-ла | |")
	})

	t.Run("no chords block", func(t *testing.T) {
		_, err := NewParser().ExtractFromHTML("<html><body><p>nothing</p></body></html>")
		assert.ErrorIs(t, err, ErrNoLyrics)
	})
}

func TestExtractLyricsFromAmdm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/song":
			w.Write([]byte(samplePage))
		case "/gzip":
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			gz.Write([]byte(samplePage))
			gz.Close()
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewParser(WithHTTPClient(srv.Client()))

	for _, path := range []string{"/song", "/gzip"} {
		t.Run(path, func(t *testing.T) {
			res, err := p.ExtractLyricsFromAmdm(context.Background(), srv.URL+path)
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Contains(t, res.Text, "[Припев]\nЛа-ла-ла")
			assert.False(t, res.FetchedAt.IsZero())
		})
	}

	t.Run("http error", func(t *testing.T) {
		res, err := p.ExtractLyricsFromAmdm(context.Background(), srv.URL+"/missing")
		require.Error(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "status: 404")
	})
}
