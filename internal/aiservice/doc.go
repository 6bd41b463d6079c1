// Package aiservice defines the capability port the AI analysis tier talks
// to and an OpenAI-compatible implementation of it.
//
// Service exposes two calls: DescribeAudio turns an audio file plus a prompt
// into free text (a transcription endpoint), and StructureDescription turns a
// system and user prompt into a JSON object (a chat completion endpoint in
// JSON mode). OpenAI implements both with github.com/openai/openai-go; Stub is
// a scripted implementation for tests and offline runs.
//
// DecodeJSON tolerates the usual model formatting quirks (code fences,
// leading prose) when decoding structured responses.
package aiservice
