package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"forcealign/internal/align"
	"forcealign/internal/config"
	"forcealign/internal/language"
	"forcealign/internal/logging"
	"forcealign/internal/services"
	"forcealign/internal/store"
	"forcealign/internal/textnorm"
	"forcealign/internal/transcript"
)

// AlignOverrides adjusts the configured alignment policy for one request.
// Zero values keep the configured setting.
type AlignOverrides struct {
	InterpolateMethod    string
	ReturnCharAlignments *bool
}

// RunWriter persists finished runs.
type RunWriter interface {
	Insert(ctx context.Context, run store.Run) (store.Run, error)
}

// AlignRequest carries everything one alignment needs.
type AlignRequest struct {
	Config        *config.Config
	Logger        *slog.Logger
	Store         RunWriter
	Source        string
	Transcript    transcript.Transcript
	Emissions     []*align.Emission
	Vocabulary    *textnorm.Vocabulary
	AudioDuration float64
	Overrides     AlignOverrides
}

// AlignOutcome is the result of Align. RunID is empty when the run was not
// recorded.
type AlignOutcome struct {
	RunID   string
	Method  string
	Elapsed time.Duration
	Result  align.Result
}

// NewAligner builds an aligner from configuration and overrides.
func NewAligner(cfg *config.Config, overrides AlignOverrides, logger *slog.Logger) (*align.Aligner, string, error) {
	if cfg == nil {
		return nil, "", services.Wrap(services.ErrConfiguration, "api", "new aligner", "configuration is required", nil)
	}
	method := cfg.Alignment.InterpolateMethod
	if m := strings.ToLower(strings.TrimSpace(overrides.InterpolateMethod)); m != "" {
		method = m
	}
	withChars := cfg.Alignment.ReturnCharAlignments
	if overrides.ReturnCharAlignments != nil {
		withChars = *overrides.ReturnCharAlignments
	}
	aligner, err := align.New(align.Options{
		InterpolateMethod:    method,
		ReturnCharAlignments: withChars,
		SpacelessLanguages:   cfg.Alignment.LanguagesWithoutSpaces,
		Abbreviations:        cfg.Alignment.Abbreviations,
		WordSeparator:        cfg.Alignment.WordSeparator,
		Workers:              cfg.Alignment.Workers,
		Logger:               logger,
	})
	if err != nil {
		return nil, "", err
	}
	return aligner, method, nil
}

// Align runs one alignment and records it when a store is supplied. A store
// failure is logged and leaves RunID empty; the alignment is still returned.
func Align(ctx context.Context, req AlignRequest) (AlignOutcome, error) {
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	var runID string
	if req.Store != nil {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger = logging.WithContext(ctx, logger)

	aligner, method, err := NewAligner(req.Config, req.Overrides, logger)
	if err != nil {
		return AlignOutcome{}, err
	}

	lang := req.Transcript.Language
	if model, modelErr := language.DefaultAlignModel(lang); modelErr == nil {
		logger.Debug("alignment language resolved",
			logging.String("language", language.DisplayName(lang)),
			logging.String("align_model", model),
		)
	}

	started := time.Now()
	result, err := aligner.Align(ctx, align.Request{
		Segments:      req.Transcript.Segments,
		Emissions:     req.Emissions,
		Vocabulary:    req.Vocabulary,
		Language:      lang,
		AudioDuration: req.AudioDuration,
	})
	if err != nil {
		return AlignOutcome{}, err
	}
	outcome := AlignOutcome{Method: method, Elapsed: time.Since(started), Result: result}

	if req.Store == nil {
		return outcome, nil
	}
	source := req.Source
	if source == "" {
		source = store.SourceCLI
	}
	run := store.NewRun(source, language.ToISO2(lang), method, len(req.Transcript.Segments), result, outcome.Elapsed)
	run.ID = runID
	saved, err := req.Store.Insert(ctx, run)
	if err != nil {
		logging.WarnWithContext(logger, "run not recorded", "run_store_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions and disk space"),
			logging.String(logging.FieldImpact, "alignment returned but missing from run history"),
		)
		return outcome, nil
	}
	outcome.RunID = saved.ID
	return outcome, nil
}

// AlignInput is a decoded POST /v1/align body.
type AlignInput struct {
	Transcript    transcript.Transcript
	Emissions     []*align.Emission
	Vocabulary    *textnorm.Vocabulary
	AudioDuration float64
	Overrides     AlignOverrides
}

type alignPayload struct {
	Vocabulary           map[string]int `json:"vocabulary"`
	BlankToken           string         `json:"blankToken"`
	AudioDuration        float64        `json:"audioDuration"`
	InterpolateMethod    string         `json:"interpolateMethod"`
	ReturnCharAlignments *bool          `json:"returnCharAlignments"`
}

// DecodeAlignPayload parses a request body holding language, segments,
// emissions and vocabulary in one JSON document. blankToken is used when
// the body does not name its own.
func DecodeAlignPayload(body []byte, blankToken string) (AlignInput, error) {
	var payload alignPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return AlignInput{}, services.Wrap(services.ErrValidation, "api", "decode request", "invalid JSON", err)
	}
	if len(payload.Vocabulary) == 0 {
		return AlignInput{}, services.Wrap(services.ErrValidation, "api", "decode request", "vocabulary is required", nil)
	}
	if m := strings.TrimSpace(payload.InterpolateMethod); m != "" {
		if err := align.ValidateMethod(strings.ToLower(m)); err != nil {
			return AlignInput{}, services.Wrap(services.ErrValidation, "api", "decode request", "interpolateMethod", err)
		}
	}

	tr, err := transcript.Decode(body, transcript.FormatJSON)
	if err != nil {
		return AlignInput{}, err
	}
	emissions, err := transcript.DecodeEmissions(body, transcript.FormatJSON)
	if err != nil {
		return AlignInput{}, err
	}
	blank := blankToken
	if b := strings.TrimSpace(payload.BlankToken); b != "" {
		blank = b
	}
	vocab, err := textnorm.NewVocabulary(payload.Vocabulary, blank)
	if err != nil {
		return AlignInput{}, services.Wrap(services.ErrValidation, "api", "decode request", "vocabulary", err)
	}
	return AlignInput{
		Transcript:    tr,
		Emissions:     emissions,
		Vocabulary:    vocab,
		AudioDuration: payload.AudioDuration,
		Overrides: AlignOverrides{
			InterpolateMethod:    payload.InterpolateMethod,
			ReturnCharAlignments: payload.ReturnCharAlignments,
		},
	}, nil
}
