package restore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

// applyAppend implements the `append` restore type: read source as
// lines, optionally drop lines already present in target, then append
// with the requested newline flavor.
func applyAppend(entry *state.JournalEntry, resolvedSource, target string, item manifest.RestoreItem, opts Options) error {
	sourceData, err := os.ReadFile(resolvedSource)
	if err != nil {
		return err
	}
	sourceLines := splitLines(string(sourceData))

	var existingData []byte
	if entry.TargetExistedBefore {
		existingData, err = os.ReadFile(target)
		if err != nil {
			return err
		}
	}
	existingLines := splitLines(string(existingData))

	toAppend := sourceLines
	if item.Dedupe {
		present := make(map[string]bool, len(existingLines))
		for _, l := range existingLines {
			present[l] = true
		}
		var filtered []string
		for _, l := range sourceLines {
			if !present[l] {
				filtered = append(filtered, l)
			}
		}
		toAppend = filtered
	}

	if len(toAppend) == 0 {
		entry.Action = state.JournalSkippedUpToDate
		return nil
	}

	newline := newlineFor(item.Newline, existingData)
	merged := buildAppended(existingData, toAppend, newline)

	if opts.DryRun {
		entry.Action = state.JournalRestored
		return nil
	}

	if err := maybeBackup(entry, target, item, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, merged, 0o644); err != nil {
		return err
	}

	entry.Action = state.JournalRestored
	return nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return nil
	}
	// Normalize CRLF to LF before splitting so a line's identity for
	// dedupe purposes doesn't depend on which newline flavor wrote it.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// newlineFor resolves the "auto | lf | crlf" newline option against
// existing's majority line ending.
func newlineFor(style manifest.NewlineStyle, existing []byte) string {
	switch style {
	case manifest.NewlineCRLF:
		return "\r\n"
	case manifest.NewlineLF:
		return "\n"
	default:
		if bytes.Count(existing, []byte("\r\n")) > bytes.Count(existing, []byte("\n"))/2 {
			return "\r\n"
		}
		return "\n"
	}
}

func buildAppended(existing []byte, lines []string, newline string) []byte {
	var buf bytes.Buffer
	buf.Write(existing)
	endsInNewline := bytes.HasSuffix(existing, []byte("\n")) || bytes.HasSuffix(existing, []byte("\r\n"))
	if len(existing) > 0 && !endsInNewline {
		buf.WriteString(newline)
	}
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteString(newline)
	}
	return buf.Bytes()
}
