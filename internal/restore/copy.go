package restore

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/artexis10/endstate/internal/domain/manifest"
	"github.com/artexis10/endstate/internal/state"
)

// applyCopy implements the `copy` restore type: skip if target already
// matches source (size + mtime within the idempotence window for files;
// file count + newest mtime for directories), otherwise back up the
// existing target and copy source over it, recursively for directories.
func applyCopy(entry *state.JournalEntry, resolvedSource, target string, item manifest.RestoreItem, opts Options) error {
	if entry.TargetExistedBefore {
		matches, err := targetMatchesSource(resolvedSource, target)
		if err != nil {
			return err
		}
		if matches {
			entry.Action = state.JournalSkippedUpToDate
			return nil
		}
	}

	if opts.DryRun {
		entry.Action = state.JournalRestored
		return nil
	}

	if err := maybeBackup(entry, target, item, opts); err != nil {
		return err
	}

	srcInfo, err := os.Stat(resolvedSource)
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		if err := os.RemoveAll(target); err != nil {
			return err
		}
		if err := copyDir(resolvedSource, target); err != nil {
			return err
		}
	} else {
		if err := copyFile(resolvedSource, target, srcInfo.Mode()); err != nil {
			return err
		}
	}

	entry.Action = state.JournalRestored
	return nil
}

// targetMatchesSource implements the copy idempotence check.
func targetMatchesSource(source, target string) (bool, error) {
	srcInfo, err := os.Stat(source)
	if err != nil {
		return false, err
	}
	dstInfo, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if srcInfo.IsDir() != dstInfo.IsDir() {
		return false, nil
	}
	if !srcInfo.IsDir() {
		if srcInfo.Size() != dstInfo.Size() {
			return false, nil
		}
		return withinIdempotenceWindow(srcInfo.ModTime(), dstInfo.ModTime()), nil
	}

	srcCount, srcNewest, err := dirStats(source)
	if err != nil {
		return false, err
	}
	dstCount, dstNewest, err := dirStats(target)
	if err != nil {
		return false, err
	}
	if srcCount != dstCount {
		return false, nil
	}
	return withinIdempotenceWindow(srcNewest, dstNewest), nil
}

// dirStats returns the regular-file count and newest modification time
// under dir.
func dirStats(dir string) (int, time.Time, error) {
	var count int
	var newest time.Time
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		count++
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	return count, newest, err
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode())
	})
}
