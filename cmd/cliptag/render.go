package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"cliptag/internal/clipstore"
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeOK
	noticeWarn
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func printNotice(out io.Writer, kind noticeKind, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if shouldColorize(out) {
		if color := noticeColor(kind); color != "" {
			line = color + line + ansiReset
		}
	}
	fmt.Fprintln(out, line)
}

func noticeColor(kind noticeKind) string {
	switch kind {
	case noticeOK:
		return ansiGreen
	case noticeWarn:
		return ansiYellow
	case noticeInfo:
		return ansiBlue
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func formatKey(key string) string {
	if strings.TrimSpace(key) == "" {
		return "-"
	}
	return key
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatUploaded(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func renderClipTable(clips []clipstore.Clip) string {
	tableRows := make([][]string, 0, len(clips))
	for _, clip := range clips {
		tableRows = append(tableRows, []string{
			shortID(clip.ID),
			clip.OriginalName,
			clip.Filename,
			formatTags(clip.Tags),
			formatKey(clip.Key),
			formatUploaded(clip.UploadedAt),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "File", "Tags", "Key", "Uploaded"},
		tableRows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func renderClipDetail(out io.Writer, clip *clipstore.Clip) {
	fields := []struct {
		label string
		value string
	}{
		{"ID", clip.ID},
		{"Name", clip.OriginalName},
		{"File", clip.Filename},
		{"Path", clip.Path},
		{"Tags", formatTags(clip.Tags)},
		{"Key", formatKey(clip.Key)},
		{"Detected tags", formatTags(clip.DetectedTags)},
		{"Detected key", formatKey(clip.DetectedKey)},
		{"Analyzed", yesNo(clip.AIAnalyzed)},
		{"Uploaded", formatUploaded(clip.UploadedAt)},
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-14s %s\n", f.label+":", f.value)
	}
}
