// Package probe inspects audio containers for format fields and common tags
// and folds them into secondary clip tags and a tempo class.
//
// A Probe consults one or more Readers in order. NativeReader decodes WAV
// headers with go-audio/wav and embedded tags with dhowden/tag; the ffprobe
// package provides a Reader backed by the ffprobe binary. Probing never fails:
// unreadable files produce an empty Result.
package probe
