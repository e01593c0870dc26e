package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/sukalov/lyricsfmt/internal/formatter"
)

type requestOptions struct {
	Lang              string `json:"lang"`
	AggressiveNumbers *bool  `json:"aggressive_numbers"`
	AutoLowercase     *bool  `json:"auto_lowercase"`
	FixBackingVocals  *bool  `json:"fix_backing_vocals"`
}

type formatRequest struct {
	Text    string          `json:"text"`
	URL     string          `json:"url"`
	Options *requestOptions `json:"options"`
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// readRequest accepts a JSON body or plain text with options in the query.
func readRequest(r *http.Request) (formatRequest, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return formatRequest{}, err
	}
	if len(body) > maxBodySize {
		return formatRequest{}, errors.New("request body too large")
	}

	if isJSON(r) {
		var req formatRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return formatRequest{}, fmt.Errorf("invalid json: %w", err)
		}
		return req, nil
	}

	opts, err := queryOptions(r)
	if err != nil {
		return formatRequest{}, err
	}
	return formatRequest{
		Text:    string(body),
		URL:     r.URL.Query().Get("url"),
		Options: opts,
	}, nil
}

func queryOptions(r *http.Request) (*requestOptions, error) {
	q := r.URL.Query()
	opts := &requestOptions{Lang: q.Get("lang")}

	flags := []struct {
		name   string
		target **bool
	}{
		{"aggressive", &opts.AggressiveNumbers},
		{"lower", &opts.AutoLowercase},
		{"bv", &opts.FixBackingVocals},
	}
	for _, f := range flags {
		val := q.Get(f.name)
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", f.name, val)
		}
		*f.target = &b
	}
	return opts, nil
}

// options applies the request's overrides to the server defaults.
func (s *Server) options(ro *requestOptions) (formatter.Options, error) {
	opts := s.defaults
	if s.stoplist != nil {
		opts.Stoplist = s.stoplist.Snapshot()
	}
	if ro == nil {
		return opts, nil
	}

	if ro.Lang != "" {
		lang, ok := formatter.ParseLang(ro.Lang)
		if !ok {
			return opts, fmt.Errorf("unknown language %q", ro.Lang)
		}
		opts.Lang = lang
	}
	if ro.AggressiveNumbers != nil {
		opts.AggressiveNumbers = *ro.AggressiveNumbers
	}
	if ro.AutoLowercase != nil {
		opts.AutoLowercase = *ro.AutoLowercase
	}
	if ro.FixBackingVocals != nil {
		opts.FixBackingVocals = *ro.FixBackingVocals
	}
	return opts, nil
}
