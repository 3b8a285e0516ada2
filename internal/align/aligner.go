package align

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"forcealign/internal/language"
	"forcealign/internal/logging"
	"forcealign/internal/sentence"
	"forcealign/internal/services"
	"forcealign/internal/textnorm"
)

// Segment is one transcript unit with its time range. Start and End share
// the units of the audio duration passed to Align (seconds or samples).
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	// Channels is the leading dimension of the segment's waveform slice;
	// zero means mono.
	Channels int `json:"channels,omitempty"`
}

// Request is one batch of segments to align.
type Request struct {
	Segments  []Segment
	Emissions []*Emission
	// Vocabulary maps characters to emission columns.
	Vocabulary *textnorm.Vocabulary
	// Language is the transcript language in any recognized form.
	Language string
	// AudioDuration bounds segment starts; zero or less disables the check.
	AudioDuration float64
}

// SkippedSegment records a segment that kept its original timing.
type SkippedSegment struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result is the transcript-wide alignment.
type Result struct {
	Segments     []SentenceSegment `json:"segments"`
	WordSegments []WordSegment     `json:"word_segments"`
	Skipped      []SkippedSegment  `json:"skipped,omitempty"`
}

// Options configures an Aligner.
type Options struct {
	InterpolateMethod    string
	ReturnCharAlignments bool
	// SpacelessLanguages are ISO 639-1 codes aligned one word per character.
	SpacelessLanguages []string
	// Abbreviations never end a sentence. Nil selects the tokenizer default.
	Abbreviations []string
	// WordSeparator stands in for spaces in the vocabulary. Defaults to "|".
	WordSeparator string
	// Workers bounds parallel segment alignment. Defaults to 1.
	Workers int
	// Tokenizer overrides the Punkt tokenizer built from Abbreviations.
	Tokenizer sentence.Tokenizer
	Logger    *slog.Logger
}

// Aligner aligns transcripts against emission matrices. It holds no
// per-request state and is safe for concurrent use.
type Aligner struct {
	opts   Options
	logger *slog.Logger
}

// New validates opts and returns an Aligner.
func New(opts Options) (*Aligner, error) {
	if err := ValidateMethod(opts.InterpolateMethod); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "aligner", "configure", "interpolate method", err)
	}
	if opts.InterpolateMethod == "" {
		opts.InterpolateMethod = MethodNearest
	}
	if opts.WordSeparator == "" {
		opts.WordSeparator = textnorm.DefaultSeparator
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = sentence.NewPunkt(opts.Abbreviations)
	}
	return &Aligner{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "aligner")}, nil
}

// batch is the per-request view shared by every segment of one Align call.
type batch struct {
	req        Request
	normalizer *textnorm.Normalizer
	spaceless  bool
}

func (a *Aligner) prepare(req Request) (*batch, error) {
	if req.Vocabulary == nil {
		return nil, services.Wrap(services.ErrValidation, "aligner", "prepare", "vocabulary is required", nil)
	}
	if len(req.Emissions) != len(req.Segments) {
		return nil, services.Wrap(services.ErrValidation, "aligner", "prepare",
			fmt.Sprintf("%d emission matrices for %d segments", len(req.Emissions), len(req.Segments)), nil)
	}
	for i, em := range req.Emissions {
		if em == nil {
			return nil, services.Wrap(services.ErrValidation, "aligner", "prepare",
				fmt.Sprintf("segment %d", i), fmt.Errorf("%w: missing", ErrMalformedEmission))
		}
		if err := em.checkCode(req.Vocabulary.BlankID(), "blank id"); err != nil {
			return nil, services.Wrap(services.ErrValidation, "aligner", "prepare", fmt.Sprintf("segment %d", i), err)
		}
	}

	spaceless := language.IsSpaceless(req.Language, a.opts.SpacelessLanguages)
	return &batch{
		req:       req,
		spaceless: spaceless,
		normalizer: textnorm.NewNormalizer(req.Vocabulary, textnorm.Options{
			Spaceless: spaceless,
			Separator: a.opts.WordSeparator,
			Tokenizer: a.opts.Tokenizer,
		}),
	}, nil
}

// Align aligns every segment of req. Segments that cannot be aligned keep
// their original timing and are listed in Result.Skipped; any other failure
// aborts the batch.
func (a *Aligner) Align(ctx context.Context, req Request) (Result, error) {
	b, err := a.prepare(req)
	if err != nil {
		return Result{}, err
	}

	logger := logging.WithContext(ctx, a.logger)
	total := len(req.Segments)
	perSegment := make([][]SentenceSegment, total)
	skipped := make([]*SkippedSegment, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i := range req.Segments {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segCtx := services.WithSegmentIndex(gctx, i)
			sentences, err := a.alignSegment(segCtx, b, i)
			if err != nil {
				if !IsSoftFailure(err) {
					return services.Wrap(services.ErrValidation, "aligner", "align segment", fmt.Sprintf("segment %d", i), err)
				}
				logging.WarnWithContext(logging.WithContext(segCtx, a.logger), "failed to align segment, resorting to original",
					"segment_align_fallback",
					logging.String("text", req.Segments[i].Text),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check the transcript text, vocabulary and audio duration"),
					logging.String(logging.FieldImpact, "segment keeps its original timing without words"),
				)
				skipped[i] = &SkippedSegment{Index: i, Text: req.Segments[i].Text, Reason: err.Error()}
			}
			perSegment[i] = sentences

			n := done.Add(1)
			logger.Debug("alignment progress",
				logging.Int("segments_done", int(n)),
				logging.Int("segments_total", total),
				logging.Float64("percent_complete", float64(n)/float64(total)*100),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{Segments: []SentenceSegment{}, WordSegments: []WordSegment{}}
	for i, sentences := range perSegment {
		result.Segments = append(result.Segments, sentences...)
		for _, s := range sentences {
			result.WordSegments = append(result.WordSegments, s.Words...)
		}
		if skipped[i] != nil {
			result.Skipped = append(result.Skipped, *skipped[i])
		}
	}
	logger.Info("alignment complete",
		logging.Int("segments", total),
		logging.Int("sentences", len(result.Segments)),
		logging.Int("words", len(result.WordSegments)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// AlignSegment aligns segment idx of req on its own. A soft failure returns
// the original segment together with the error; see IsSoftFailure.
func (a *Aligner) AlignSegment(ctx context.Context, req Request, idx int) ([]SentenceSegment, error) {
	if idx < 0 || idx >= len(req.Segments) {
		return nil, services.Wrap(services.ErrValidation, "aligner", "align segment",
			fmt.Sprintf("index %d out of range for %d segments", idx, len(req.Segments)), nil)
	}
	b, err := a.prepare(req)
	if err != nil {
		return nil, err
	}
	return a.alignSegment(ctx, b, idx)
}

func (a *Aligner) alignSegment(ctx context.Context, b *batch, idx int) ([]SentenceSegment, error) {
	seg := b.req.Segments[idx]
	em := b.req.Emissions[idx]

	norm, err := b.normalizer.Normalize(seg.Text)
	if err != nil {
		return a.original(seg), err
	}
	if b.req.AudioDuration > 0 && seg.Start >= b.req.AudioDuration {
		return a.original(seg), fmt.Errorf("%w: start %v, duration %v", ErrStartBeyondAudio, seg.Start, b.req.AudioDuration)
	}

	tr, err := BuildTrellis(em, norm.Tokens, b.req.Vocabulary.BlankID())
	if err != nil {
		return nil, err
	}
	path, err := Backtrack(tr, em, norm.Tokens, b.req.Vocabulary.BlankID())
	if err != nil {
		return a.original(seg), err
	}
	chars := MergeRepeats(path, norm.Chars)

	ratio := frameRatio(seg, tr)
	records := timeChars(seg, norm, chars, ratio, b.spaceless)
	drafts := aggregate(records, norm, a.opts.ReturnCharAlignments)

	sentences, err := a.resolve(ctx, seg, drafts)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, a.logger).Debug("segment aligned",
		logging.Int("frames", em.Frames()),
		logging.Int("tokens", len(norm.Tokens)),
		logging.Int("sentences", len(sentences)),
	)
	return MergeIdenticalSentences(sentences, b.spaceless), nil
}

// resolve interpolates missing sentence bounds and fixes any that remain
// from the segment's own range.
func (a *Aligner) resolve(ctx context.Context, seg Segment, drafts []sentenceDraft) ([]SentenceSegment, error) {
	starts := make([]Optional[float64], len(drafts))
	ends := make([]Optional[float64], len(drafts))
	for i, d := range drafts {
		starts[i], ends[i] = d.start, d.end
	}

	starts, err := a.interpolate(ctx, starts)
	if err != nil {
		return nil, err
	}
	ends, err = a.interpolate(ctx, ends)
	if err != nil {
		return nil, err
	}

	sentences := make([]SentenceSegment, len(drafts))
	for i, d := range drafts {
		sentences[i] = SentenceSegment{
			Text:  d.text,
			Start: starts[i].Or(seg.Start),
			End:   ends[i].Or(seg.End),
			Words: d.words,
			Chars: d.chars,
		}
	}
	return sentences, nil
}

func (a *Aligner) interpolate(ctx context.Context, values []Optional[float64]) ([]Optional[float64], error) {
	filled, err := InterpolateNaNs(values, a.opts.InterpolateMethod)
	if err == nil {
		return filled, nil
	}
	if !errors.Is(err, ErrInterpolationFit) {
		return nil, err
	}
	logging.WarnWithContext(logging.WithContext(ctx, a.logger), "interpolation failed, using nearest",
		"interpolation_fallback",
		logging.String("method", a.opts.InterpolateMethod),
		logging.Error(err),
		logging.String(logging.FieldImpact, "sentence bounds filled from the nearest aligned sentence"),
	)
	return InterpolateNaNs(values, MethodNearest)
}

// original is the fallback for a segment that could not be aligned.
func (a *Aligner) original(seg Segment) []SentenceSegment {
	s := SentenceSegment{Text: seg.Text, Start: seg.Start, End: seg.End, Words: []WordSegment{}}
	if a.opts.ReturnCharAlignments {
		s.Chars = []CharTiming{}
	}
	return []SentenceSegment{s}
}
