package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDefaultModel reports a language without a conventional alignment model.
var ErrNoDefaultModel = errors.New("no default align model")

type entry struct {
	code2      string   // ISO 639-1 (2-letter)
	code3      string   // ISO 639-2 primary (3-letter)
	alt3       string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display    string   // Human-readable name
	words      []string // Full word forms (e.g. "english")
	alignModel string   // wav2vec2 CTC checkpoint commonly used for alignment
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}, "jonatasgrosman/wav2vec2-large-xlsr-53-english"},
	{"es", "spa", "", "Spanish", []string{"spanish"}, "jonatasgrosman/wav2vec2-large-xlsr-53-spanish"},
	{"fr", "fra", "fre", "French", []string{"french"}, "jonatasgrosman/wav2vec2-large-xlsr-53-french"},
	{"de", "deu", "ger", "German", []string{"german"}, "jonatasgrosman/wav2vec2-large-xlsr-53-german"},
	{"it", "ita", "", "Italian", []string{"italian"}, "jonatasgrosman/wav2vec2-large-xlsr-53-italian"},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}, "jonatasgrosman/wav2vec2-large-xlsr-53-portuguese"},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}, "jonatasgrosman/wav2vec2-large-xlsr-53-japanese"},
	{"ko", "kor", "", "Korean", []string{"korean"}, "kresnik/wav2vec2-large-xlsr-korean"},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}, "jonatasgrosman/wav2vec2-large-xlsr-53-chinese-zh-cn"},
	{"ru", "rus", "", "Russian", []string{"russian"}, "jonatasgrosman/wav2vec2-large-xlsr-53-russian"},
	{"ar", "ara", "", "Arabic", []string{"arabic"}, "jonatasgrosman/wav2vec2-large-xlsr-53-arabic"},
	{"hi", "hin", "", "Hindi", []string{"hindi"}, "theainerd/Wav2Vec2-large-xlsr-hindi"},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}, "jonatasgrosman/wav2vec2-large-xlsr-53-dutch"},
	{"pl", "pol", "", "Polish", []string{"polish"}, "jonatasgrosman/wav2vec2-large-xlsr-53-polish"},
	{"sv", "swe", "", "Swedish", []string{"swedish"}, ""},
	{"da", "dan", "", "Danish", []string{"danish"}, "saattrupdan/wav2vec2-xls-r-300m-ftspeech"},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}, "NbAiLab/nb-wav2vec2-1b-bokmaal"},
	{"nn", "nno", "", "Norwegian Nynorsk", []string{"nynorsk"}, "NbAiLab/nb-wav2vec2-300m-nynorsk"},
	{"fi", "fin", "", "Finnish", []string{"finnish"}, "jonatasgrosman/wav2vec2-large-xlsr-53-finnish"},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}, "Yehor/wav2vec2-xls-r-300m-uk-with-small-lm"},
	{"cs", "ces", "cze", "Czech", []string{"czech"}, "comodoro/wav2vec2-xls-r-300m-cs-250"},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}, "jonatasgrosman/wav2vec2-large-xlsr-53-hungarian"},
	{"fa", "fas", "per", "Persian", []string{"persian"}, "jonatasgrosman/wav2vec2-large-xlsr-53-persian"},
	{"el", "ell", "gre", "Greek", []string{"greek"}, "jonatasgrosman/wav2vec2-large-xlsr-53-greek"},
	{"tr", "tur", "", "Turkish", []string{"turkish"}, "mpoyraz/wav2vec2-xls-r-300m-cv7-turkish"},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}, "imvladikon/wav2vec2-xls-r-300m-hebrew"},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}, "nguyenvulebinh/wav2vec2-base-vi"},
	{"ur", "urd", "", "Urdu", []string{"urdu"}, "kingabzpro/wav2vec2-large-xls-r-300m-Urdu"},
	{"te", "tel", "", "Telugu", []string{"telugu"}, "anuragshas/wav2vec2-large-xlsr-53-telugu"},
	{"ca", "cat", "", "Catalan", []string{"catalan"}, "softcatala/wav2vec2-large-xlsr-catala"},
	{"ml", "mal", "", "Malayalam", []string{"malayalam"}, "gvs/wav2vec2-large-xlsr-malayalam"},
	{"sk", "slk", "slo", "Slovak", []string{"slovak"}, "comodoro/wav2vec2-xls-r-300m-sk-cv8"},
	{"sl", "slv", "", "Slovenian", []string{"slovenian"}, "anton-l/wav2vec2-large-xlsr-53-slovenian"},
	{"hr", "hrv", "", "Croatian", []string{"croatian"}, "classla/wav2vec2-xls-r-parlaspeech-hr"},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input.
// If the input is already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// DefaultAlignModel returns the conventional CTC alignment checkpoint for a
// language. Callers that load models use it when no model was configured.
func DefaultAlignModel(code string) (string, error) {
	if e := lookup(code); e != nil && e.alignModel != "" {
		return e.alignModel, nil
	}
	return "", fmt.Errorf("%w for language %q", ErrNoDefaultModel, strings.TrimSpace(code))
}

// IsSpaceless reports whether code (in any recognized form) is one of the
// space-less languages, which are given as ISO 639-1 codes.
func IsSpaceless(code string, spaceless []string) bool {
	iso := ToISO2(code)
	if iso == "" {
		return false
	}
	for _, candidate := range spaceless {
		if strings.EqualFold(strings.TrimSpace(candidate), iso) {
			return true
		}
	}
	return false
}

// Codes returns every known ISO 639-1 code in table order.
func Codes() []string {
	out := make([]string, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.code2)
	}
	return out
}
