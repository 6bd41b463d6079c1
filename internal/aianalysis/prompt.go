package aianalysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"cliptag/internal/media/probe"
)

// AudioPromptTemplate is sent with the audio upload. The placeholders are the
// tag vocabulary, duration, channels, and sample rate.
const AudioPromptTemplate = `Analyze this audio clip and provide the following information:
1. Musical key (if detectable)
2. Relevant tags from this list: %s
3. A descriptive name for the clip based on its content

Audio metadata context:
- Duration: %s
- Channels: %s
- Sample rate: %s

Format the response as a JSON object with the following structure:
{
  "key": "Musical key in format like 'C major' or 'A minor'",
  "tags": ["tag1", "tag2", "tag3"],
  "suggestedName": "Descriptive name for the clip"
}`

// SystemPromptTemplate frames the structuring call. The placeholders are the
// key and tag vocabularies.
const SystemPromptTemplate = `You are a professional audio engineer and musician who can identify musical characteristics from audio descriptions.
Analyze audio clips to identify:
1. Musical key (one of: %s)
2. Relevant tags from: %s
3. A descriptive name for the audio clip`

// UserPromptTemplate carries the clip description and context. The
// placeholders are the description, original filename, duration, and the
// JSON-encoded metadata.
const UserPromptTemplate = `Based on this audio clip description: %q

Additional context:
- Original filename: %s
- Duration: %s
- Audio metadata analysis: %s

Provide musical analysis formatted as JSON with these fields:
- key (string): The musical key (if detectable, otherwise empty string)
- tags (array): 2-4 relevant tags from the allowed list
- suggestedName (string): A descriptive name for the clip based on content`

func audioPrompt(tags []string, meta probe.Result) string {
	return fmt.Sprintf(AudioPromptTemplate,
		strings.Join(tags, ", "),
		formatDuration(meta.Duration),
		formatCount(meta.Channels, ""),
		formatCount(meta.SampleRate, " Hz"),
	)
}

func systemPrompt(keys, tags []string) string {
	return fmt.Sprintf(SystemPromptTemplate, strings.Join(keys, ", "), strings.Join(tags, ", "))
}

func userPrompt(description, originalName string, meta probe.Result) string {
	encoded, err := json.Marshal(meta)
	if err != nil {
		encoded = []byte("{}")
	}
	return fmt.Sprintf(UserPromptTemplate, description, originalName, formatDuration(meta.Duration), encoded)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.2f seconds", seconds)
}

func formatCount(value int, unit string) string {
	if value <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d%s", value, unit)
}
