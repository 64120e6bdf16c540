package transcript

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// punctReplacer strips the annotation punctuation that corpus transcripts
// carry but acoustic training text must not.
var punctReplacer = strings.NewReplacer(
	`"`, "",
	".", "",
	"?", "",
	",", "",
	":", "",
	";", "",
	"!", "",
)

var lowerCaser = cases.Lower(language.Und)

// NormalizeConfig is an explicit normalization configuration passed to
// parsers, so normalization stays a pure function of (text, configuration)
// with no process-wide lexicon state.
type NormalizeConfig struct {
	// UnknownToken replaces filler/disfluency tokens. Empty disables the
	// substitution.
	UnknownToken string
	// FillerTokens are compared case-insensitively after punctuation
	// stripping (e.g. "um", "mm").
	FillerTokens []string
	// ExcludeSpeakerPrefixes drops records whose speaker label starts with
	// any of these prefixes (e.g. "background" annotation channels).
	ExcludeSpeakerPrefixes []string
	// Lowercase folds the transcription to lower case.
	Lowercase bool
}

// Text normalizes a raw transcription: punctuation stripped, whitespace
// collapsed, fillers replaced, optional case folding. An empty result means
// the record must be dropped entirely, never emitted as an empty segment.
func (c NormalizeConfig) Text(raw string) string {
	cleaned := punctReplacer.Replace(raw)
	if c.Lowercase {
		cleaned = lowerCaser.String(cleaned)
	}
	words := strings.Fields(cleaned)
	if len(c.FillerTokens) > 0 && c.UnknownToken != "" {
		for i, word := range words {
			if c.isFiller(word) {
				words[i] = c.UnknownToken
			}
		}
	}
	return strings.Join(words, " ")
}

func (c NormalizeConfig) isFiller(word string) bool {
	for _, filler := range c.FillerTokens {
		if strings.EqualFold(word, filler) {
			return true
		}
	}
	return false
}

// ExcludedSpeaker reports whether the speaker label matches an exclusion
// prefix. Such labels denote non-speech annotation channels, not utterances.
func (c NormalizeConfig) ExcludedSpeaker(speaker string) bool {
	for _, prefix := range c.ExcludeSpeakerPrefixes {
		if prefix != "" && strings.HasPrefix(speaker, prefix) {
			return true
		}
	}
	return false
}
