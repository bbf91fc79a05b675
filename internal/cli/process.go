package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"submerge/internal/domain/merge"
	"submerge/internal/domain/subtitles"
	"submerge/internal/errors"
	"submerge/internal/language"
	"submerge/internal/pipeline"
	"submerge/internal/srt"
)

const outputSuffix = ".merged"

// optionFlags mirrors every merge option so process and presets add share
// one flag set. Flag defaults track the documented option defaults; only
// flags the user actually set override the base options.
type optionFlags struct {
	basicMerge        bool
	maxMergeCount     int
	chunkSize         int
	maxTextLength     int
	maxGap            int
	minTextLength     int
	spaceMerge        bool
	duplicateMerge    bool
	maxDuplicateGap   int
	endStartMerge     bool
	maxEndStartGap    int
	minLengthMerge    bool
	minDurationRemove bool
	minDuration       int
	analyze           bool
	language          string
}

func registerOptionFlags(cmd *cobra.Command, f *optionFlags) {
	def := merge.DefaultOptions()
	fl := cmd.Flags()
	fl.BoolVar(&f.basicMerge, "basic-merge", def.EnableBasicMerge, "Merge fragmented neighboring cues")
	fl.IntVar(&f.maxMergeCount, "max-merge-count", def.MaxMergeCount, "Most cues one merge may combine")
	fl.IntVar(&f.chunkSize, "chunk-size", def.CandidateChunkSize, "Candidate window size limit")
	fl.IntVar(&f.maxTextLength, "max-text-length", def.MaxTextLength, "Longest merged text in characters")
	fl.IntVar(&f.maxGap, "max-gap", def.MaxBasicGap, "Largest gap bridged by basic merge (ms)")
	fl.IntVar(&f.minTextLength, "min-text-length", def.MinTextLength, "Shortest acceptable cue text")
	fl.BoolVar(&f.spaceMerge, "space-merge", def.EnableSpaceMerge, "Join merged texts with a space")
	fl.BoolVar(&f.duplicateMerge, "duplicate-merge", def.EnableDuplicateMerge, "Collapse repeated neighboring cues")
	fl.IntVar(&f.maxDuplicateGap, "max-duplicate-gap", def.MaxDuplicateGap, "Largest gap between duplicates (ms)")
	fl.BoolVar(&f.endStartMerge, "end-start-merge", def.EnableEndStartMerge, "Merge cues whose start repeats the previous end")
	fl.IntVar(&f.maxEndStartGap, "max-end-start-gap", def.MaxEndStartGap, "Largest gap for end-start merging (ms)")
	fl.BoolVar(&f.minLengthMerge, "min-length-merge", def.EnableMinLengthMerge, "Fold too-short cues into a neighbor")
	fl.BoolVar(&f.minDurationRemove, "min-duration-remove", def.EnableMinDurationRemove, "Drop cues shorter than the duration floor")
	fl.IntVar(&f.minDuration, "min-duration", def.MinDurationMs, "Duration floor in milliseconds")
	fl.BoolVar(&f.analyze, "analyze", def.EnableSegmentAnalyzer, "Score merge candidates with the language analyzer")
	fl.StringVar(&f.language, "language", string(def.SegmentAnalyzerLanguage), "Analyzer language (en, ja, ko)")
}

func (f optionFlags) apply(cmd *cobra.Command, opts merge.Options) merge.Options {
	set := cmd.Flags().Changed
	if set("basic-merge") {
		opts.EnableBasicMerge = f.basicMerge
	}
	if set("max-merge-count") {
		opts.MaxMergeCount = f.maxMergeCount
	}
	if set("chunk-size") {
		opts.CandidateChunkSize = f.chunkSize
	}
	if set("max-text-length") {
		opts.MaxTextLength = f.maxTextLength
	}
	if set("max-gap") {
		opts.MaxBasicGap = f.maxGap
	}
	if set("min-text-length") {
		opts.MinTextLength = f.minTextLength
	}
	if set("space-merge") {
		opts.EnableSpaceMerge = f.spaceMerge
	}
	if set("duplicate-merge") {
		opts.EnableDuplicateMerge = f.duplicateMerge
	}
	if set("max-duplicate-gap") {
		opts.MaxDuplicateGap = f.maxDuplicateGap
	}
	if set("end-start-merge") {
		opts.EnableEndStartMerge = f.endStartMerge
	}
	if set("max-end-start-gap") {
		opts.MaxEndStartGap = f.maxEndStartGap
	}
	if set("min-length-merge") {
		opts.EnableMinLengthMerge = f.minLengthMerge
	}
	if set("min-duration-remove") {
		opts.EnableMinDurationRemove = f.minDurationRemove
	}
	if set("min-duration") {
		opts.MinDurationMs = f.minDuration
	}
	if set("analyze") {
		opts.EnableSegmentAnalyzer = f.analyze
	}
	if set("language") {
		opts.SegmentAnalyzerLanguage = language.Parse(f.language)
	}
	return opts
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		flags     optionFlags
		outDir    string
		toStdout  bool
		quiet     bool
		presetRef string
		startStr  string
		endStr    string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "process <file.srt ...>",
		Short: "Clean and merge subtitle files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toStdout && len(args) != 1 {
				return errors.Config("--stdout works with exactly one input file")
			}
			if format != "srt" && format != "ass" {
				return errors.Configf("unknown output format %q (srt, ass)", format)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.toolLogger()

			opts := cfg.Merge.Options()
			if presetRef != "" {
				opts, err = loadPresetOptions(ctx, logger, presetRef)
				if err != nil {
					return err
				}
			}
			opts = flags.apply(cmd, opts)

			tr, err := parseRangeFlags(startStr, endStr)
			if err != nil {
				return err
			}

			deps, err := analyzerDeps(cfg, logger)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(args))
			for _, input := range args {
				raw, err := os.ReadFile(input)
				if err != nil {
					return fmt.Errorf("read %s: %w", input, err)
				}
				res, err := pipeline.Run(string(raw), opts, tr, deps)
				if err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}

				content := res.Output
				ext := filepath.Ext(input)
				if format == "ass" {
					content = subtitles.RenderASS(res.Document)
					ext = ".ass"
				}

				outName := "-"
				if toStdout {
					fmt.Fprint(cmd.OutOrStdout(), content)
				} else {
					out, err := outputPath(input, outDir, ext)
					if err != nil {
						return err
					}
					if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
						return fmt.Errorf("write %s: %w", out, err)
					}
					outName = filepath.Base(out)
				}
				rows = append(rows, []string{
					filepath.Base(input),
					strconv.Itoa(res.BeforeCount),
					strconv.Itoa(res.AfterCount),
					strconv.Itoa(res.BeforeCount - res.AfterCount),
					outName,
				})
			}

			if !quiet && !toStdout {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"FILE", "BEFORE", "AFTER", "REMOVED", "OUTPUT"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
			}
			return nil
		},
	}

	registerOptionFlags(cmd, &flags)
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: alongside each input)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the result to stdout instead of a file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the summary table")
	cmd.Flags().StringVar(&presetRef, "preset", "", "Stored preset ID or name to start from")
	cmd.Flags().StringVar(&startStr, "start", "", "Only keep cues overlapping the range from this time (HH:MM:SS,mmm)")
	cmd.Flags().StringVar(&endStr, "end", "", "Only keep cues overlapping the range up to this time (HH:MM:SS,mmm)")
	cmd.Flags().StringVar(&format, "format", "srt", "Output format (srt, ass)")

	return cmd
}

// loadPresetOptions resolves ref as a preset ID first, then as a name.
func loadPresetOptions(ctx *commandContext, logger *slog.Logger, ref string) (merge.Options, error) {
	st, err := ctx.openStore(logger)
	if err != nil {
		return merge.Options{}, err
	}
	defer st.Close()

	p, err := st.GetPreset(ref)
	if errors.Is(err, errors.ErrNotFound) {
		p, err = st.GetPresetByName(ref)
	}
	if err != nil {
		return merge.Options{}, err
	}
	return p.Options, nil
}

func parseRangeFlags(start, end string) (*merge.TimeRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, errors.Config("--start and --end must be used together")
	}
	s, err := srt.ParseTimestamp(start)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "invalid --start")
	}
	e, err := srt.ParseTimestamp(end)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindConfig, "invalid --end")
	}
	return &merge.TimeRange{Start: s, End: e}, nil
}

func outputPath(input, outDir, ext string) (string, error) {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + outputSuffix + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), name), nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(outDir, name), nil
}
