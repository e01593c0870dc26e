package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sukalov/lyricsfmt/internal/config"
	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/lyrics"
	"github.com/sukalov/lyricsfmt/internal/lyrics/parsers/amdm"
	"github.com/sukalov/lyricsfmt/internal/tui"
	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

var version = "dev"

// errIssues makes -check exit non-zero without printing an error.
var errIssues = errors.New("check found issues")

type cli struct {
	lang       string
	aggressive bool
	lower      bool
	bv         bool
	output     string
	check      bool
	editor     bool
	configPath string
	stoplist   string
	keepBars   bool
}

func main() {
	logger.SetDebug(false)

	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, errIssues):
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	defaults := formatter.DefaultOptions()

	var c cli
	fs := flag.NewFlagSet("lyricfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.lang, "lang", string(defaults.Lang), "lyrics language (EN RU ES PT FR IT EL)")
	fs.BoolVar(&c.aggressive, "aggressive", defaults.AggressiveNumbers, "aggressive number handling")
	fs.BoolVar(&c.lower, "lower", defaults.AutoLowercase, "lowercase the output")
	fs.BoolVar(&c.bv, "bv", defaults.FixBackingVocals, "fix backing vocals")
	fs.StringVar(&c.output, "o", "", "write the result to this file")
	fs.BoolVar(&c.check, "check", false, "only report issues; exit 1 when there are any")
	fs.BoolVar(&c.editor, "tui", false, "open the text in the terminal editor")
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.StringVar(&c.stoplist, "stoplist", "", "file with extra words never treated as names")
	fs.BoolVar(&c.keepBars, "keep-bars", false, "keep \"|\" bar separators in amdm lyrics")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lyricfmt [options] [file|url|-]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("expected at most one input, got %d", fs.NArg())
	}

	opts, err := c.options(fs)
	if err != nil {
		return err
	}

	source := fs.Arg(0)
	var parserOpts []amdm.Option
	if c.keepBars {
		parserOpts = append(parserOpts, amdm.WithKeepBars())
	}
	text, err := readInput(source, stdin, lyrics.NewService(amdm.NewParser(parserOpts...)))
	if err != nil {
		return err
	}

	if c.check {
		m := formatter.Check(text)
		fmt.Fprintln(stdout, m.String())
		if m.Clean() {
			return nil
		}
		fmt.Fprintln(stdout, m.Report())
		return errIssues
	}

	if c.editor {
		path := c.output
		if path == "" && source != "" && source != "-" && !lyrics.IsSupported(source) {
			path = source
		}
		return tui.Run(tui.Config{
			Path:    path,
			Text:    text,
			Version: version,
			Options: func() formatter.Options { return opts },
		})
	}

	result := formatter.Format(text, opts)
	fmt.Fprintln(stderr, formatter.Check(result).String())

	if c.output != "" {
		return os.WriteFile(c.output, []byte(result+"\n"), 0644)
	}
	_, err = fmt.Fprintln(stdout, result)
	return err
}

// options layers config file values under the flags given explicitly.
func (c cli) options(fs *flag.FlagSet) (formatter.Options, error) {
	opts := formatter.DefaultOptions()

	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return opts, err
		}
		opts = cfg.Format.Options()
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["lang"] {
		lang, ok := formatter.ParseLang(c.lang)
		if !ok {
			return opts, fmt.Errorf("unknown language %q", c.lang)
		}
		opts.Lang = lang
	}
	if set["aggressive"] {
		opts.AggressiveNumbers = c.aggressive
	}
	if set["lower"] {
		opts.AutoLowercase = c.lower
	}
	if set["bv"] {
		opts.FixBackingVocals = c.bv
	}

	if c.stoplist != "" {
		f, err := os.Open(c.stoplist)
		if err != nil {
			return opts, err
		}
		defer f.Close()
		words, err := wordlist.Parse(f)
		if err != nil {
			return opts, err
		}
		opts.Stoplist = wordlist.Default().Merge(words)
	}
	return opts, nil
}

// readInput loads text from a file, an amdm link or stdin. Links come back
// already extracted, not formatted.
func readInput(source string, stdin io.Reader, svc *lyrics.Service) (string, error) {
	switch {
	case source == "" || source == "-":
		data, err := io.ReadAll(stdin)
		return string(data), err
	case lyrics.IsSupported(source):
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		res, err := svc.ExtractLyrics(ctx, source)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return "", fmt.Errorf("%w: %s", lyrics.ErrUnsupportedSource, source)
	}

	data, err := os.ReadFile(source)
	return string(data), err
}
