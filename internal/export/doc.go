// Package export renders alignment results as SubRip (SRT) subtitles.
package export
