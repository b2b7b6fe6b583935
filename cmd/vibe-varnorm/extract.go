package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-varnorm/internal/corpus"
	"github.com/inodb/vibe-varnorm/internal/extract"
	"github.com/inodb/vibe-varnorm/internal/metrics"
	"github.com/inodb/vibe-varnorm/internal/normalize"
	"github.com/inodb/vibe-varnorm/internal/output"
	"github.com/inodb/vibe-varnorm/internal/store"
)

type extractOptions struct {
	details     bool
	normalize   bool
	output      string
	metricsFile string
}

func newExtractCmd(verbose *bool) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract [path]",
		Short: "Extract variant mentions from text",
		Long: `Extract scans a text file, a gzipped text file, a directory of .txt files,
or stdin for variant mentions and writes the accepted mentions in text order,
one per line, tab-delimited.`,
		Example: `  vibe-varnorm extract abstract.txt
  vibe-varnorm extract --details --normalize corpus/
  vibe-varnorm extract --store runs.duckdb --metrics-file extract.prom corpus/
  cat abstract.txt | vibe-varnorm extract -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			logger, err := newLogger(*verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()
			return runExtract(cmd.OutOrStdout(), cmd.ErrOrStderr(), path, opts, logger)
		},
	}

	f := cmd.Flags()
	f.Float64("min-confidence", 0.7, "Minimum confidence for a mention to be reported")
	f.Int("window", 50, "Context window in characters on each side of a mention")
	f.String("method", "pattern", "Recognition method: pattern, model, hybrid")
	f.Bool("strict-blacklist", true, "Veto blacklisted tokens without requiring negative context")
	f.Int("workers", 0, "Number of parallel workers (0 = all CPUs)")
	f.String("lexicon", "", "YAML file with extra blacklist, positive and negative terms")
	f.String("store", "", "Database file to record the run in")
	f.String("store-driver", store.DriverDuckDB, "Store driver: duckdb, sqlite3")
	f.BoolVar(&opts.details, "details", false, "Include category, confidence, offsets and context")
	f.BoolVar(&opts.normalize, "normalize", false, "Include the normalized form of each mention")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on completion")

	cmd.PreRunE = bindFlags(map[string]string{
		keyMinConfidence:   "min-confidence",
		keyContextWindow:   "window",
		keyMethod:          "method",
		keyStrictBlacklist: "strict-blacklist",
		keyWorkers:         "workers",
		keyLexiconFile:     "lexicon",
		keyStorePath:       "store",
		keyStoreDriver:     "store-driver",
	})

	return cmd
}

func runExtract(stdout, stderr io.Writer, path string, opts extractOptions, logger *zap.Logger) error {
	cfg := extractConfig()

	lex, err := loadLexicon()
	if err != nil {
		return err
	}
	ext, err := extract.New(nil, lex, cfg)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}
	ext.SetLogger(logger)
	norm := normalize.New()

	var reg *prometheus.Registry
	if opts.metricsFile != "" {
		reg = prometheus.NewRegistry()
		rec := metrics.NewPrometheus(reg)
		ext.SetMetrics(rec)
		norm.SetMetrics(rec)
	}

	reader, err := corpus.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	var (
		st  *store.Store
		run store.Run
	)
	if storePath := viper.GetString(keyStorePath); storePath != "" {
		st, err = store.Open(viper.GetString(keyStoreDriver), storePath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		if run, err = st.BeginRun(path, cfg.MinConfidence); err != nil {
			return err
		}
		logger.Info("started run", zap.String("run_id", run.ID), zap.String("source", path))
		fmt.Fprintf(stderr, "Recording run %s in %s\n", run.ID, storePath)
	}

	w, closeOut, err := createOutput(stdout, opts.output)
	if err != nil {
		return err
	}
	defer closeOut()

	mw := output.NewMentionWriter(w, opts.details, opts.normalize)
	if err := mw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	// Feed documents to the worker pool. readErr is only read after the
	// results channel has closed, which happens after items is closed.
	items := make(chan extract.WorkItem, 64)
	var readErr error
	go func() {
		defer close(items)
		for seq := 0; ; seq++ {
			doc, err := reader.Next()
			if err != nil {
				readErr = err
				return
			}
			if doc == nil {
				return
			}
			items <- extract.WorkItem{Seq: seq, ID: doc.ID, Text: doc.Text}
		}
	}()

	var docs, mentions int
	err = extract.OrderedCollect(ext.ParallelRecognize(items, cfg.Workers), func(r extract.WorkResult) error {
		if r.Err != nil {
			return fmt.Errorf("document %s: %w", r.ID, r.Err)
		}
		docs++
		mentions += len(r.Matches)

		var records []store.MentionRecord
		for i, m := range r.Matches {
			var nv normalize.NormalizedVariant
			if opts.normalize || st != nil {
				nv = norm.Normalize(m.Variant)
			}
			if err := mw.Write(r.ID, m, nv); err != nil {
				return fmt.Errorf("writing mention: %w", err)
			}
			if st != nil {
				records = append(records, mentionRecord(r.ID, i, m, nv))
			}
		}
		if st != nil {
			return st.WriteMentions(run.ID, records)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}

	if err := mw.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	if reg != nil {
		if err := metrics.WriteFile(opts.metricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	logger.Debug("extraction finished", zap.Int("documents", docs), zap.Int("mentions", mentions))
	fmt.Fprintf(stderr, "Extracted %d mentions from %d documents\n", mentions, docs)
	return nil
}

func mentionRecord(docID string, seq int, m extract.Match, nv normalize.NormalizedVariant) store.MentionRecord {
	return store.MentionRecord{
		DocID:          docID,
		Seq:            int64(seq),
		Variant:        m.Variant,
		Category:       string(m.Category),
		Pattern:        m.Pattern,
		Confidence:     m.Confidence,
		Start:          int64(m.Start),
		End:            int64(m.End),
		Normalized:     nv.Normalized,
		NormCategory:   string(nv.Category),
		NormConfidence: nv.Confidence,
	}
}
