// Package summarize implements the incremental chunked-summarization
// engine: chunk segmentation, the bounded carry-forward context window,
// prompt construction, the retry/backoff controller around the completion
// backend, progress tracking and the durable output writer.
package summarize

import (
	"fmt"
	"sort"
)

// Level is a named verbosity configuration: how much source text goes into
// each request, how many output tokens to ask for, and the instruction
// template the request is built from.
type Level struct {
	Name            string
	ChunkSize       int // source characters per chunk
	MaxOutputTokens int
	Template        string
	Stateless       bool // transform each chunk independently, no carried context
}

var levels = map[string]Level{
	"verbose": {
		Name:            "verbose",
		ChunkSize:       20000,
		MaxOutputTokens: 10000,
		Template: "Summarize verbosely, emphasizing key details, action items, and described goals, " +
			"while incorporating new information from [CURRENT_CHUNK] into [PREVIOUS_SUMMARY]. " +
			"Retain the first two paragraphs of [PREVIOUS_SUMMARY]. Remove labels, maintain paragraph " +
			"breaks for readability, and avoid phrases like 'in conclusion' or 'in summary'. " +
			"Do not reference 'chunk' or 'chunks' in your summary. Collect all questions that were " +
			"asked but require further follow up, as well as action items.",
	},
	"concise": {
		Name:            "concise",
		ChunkSize:       20000,
		MaxOutputTokens: 5000,
		Template: "Summarize concisely, highlighting key details and important points, update with new info. " +
			"Extract and save all questions that were asked but require further follow up. " +
			"Use [PREVIOUS_SUMMARY] and [CURRENT_CHUNK]. Keep first two paragraphs in [PREVIOUS_SUMMARY] " +
			"as-is. Exclude these labels from summary. Ensure readability using paragraph breaks, " +
			"and avoid phrases like 'in conclusion' or 'in summary'.",
	},
	"terse": {
		Name:            "terse",
		ChunkSize:       20000,
		MaxOutputTokens: 1000,
		Template: "Summarize tersely for executive action using [PREVIOUS_SUMMARY] and [CURRENT_CHUNK], " +
			"focusing on key details and technical content. Retain the first two paragraphs of " +
			"[PREVIOUS_SUMMARY], remove labels, and maintain paragraph breaks for readability. " +
			"Avoid phrases like 'in conclusion' or 'in summary'.",
	},
	"barney": {
		Name:            "barney",
		ChunkSize:       5000,
		MaxOutputTokens: 3000,
		Template: "Break the content down Barney style, emphasizing key details and incorporating new " +
			"information from [CURRENT_CHUNK] into [PREVIOUS_SUMMARY]. Retain the first two paragraphs " +
			"of [PREVIOUS_SUMMARY]. Remove labels, maintain paragraph breaks for readability, and avoid " +
			"phrases like 'in conclusion' or 'in summary'.",
	},
	"transcribe": {
		Name:            "transcribe",
		ChunkSize:       10000,
		MaxOutputTokens: 10000,
		Stateless:       true,
		Template: "Convert the following transcript into a dialogue format, similar to a script in a novel. " +
			"Please remove filler words like 'uh' and 'umm', lightly edit sentences for clarity and " +
			"readability, and include all the details discussed in the conversation without abbreviating " +
			"or summarizing any part of it. Maintain paragraph breaks for readability. Do not summarize " +
			"or omit any details.",
	},
}

// LevelByName looks up a summary level.
func LevelByName(name string) (Level, error) {
	level, ok := levels[name]
	if !ok {
		return Level{}, fmt.Errorf("unknown summary level %q (valid: %v)", name, LevelNames())
	}
	return level, nil
}

// LevelNames returns the valid level names, sorted.
func LevelNames() []string {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
