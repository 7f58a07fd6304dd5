package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
)

// rotateLocked swaps the live log file for a fresh one and gzips the old
// contents next to it. Called with the logger mutex held; every failure is
// reported to the fallback stream and logging carries on with whatever file
// can still be opened.
func (l *Logger) rotateLocked() {
	if l.file == nil {
		return
	}

	if err := l.file.Close(); err != nil {
		fmt.Fprintf(l.fallback, "%s logging: close for rotation: %v\n", LevelError, err)
	}

	rotated := fmt.Sprintf("%s.%d", l.path, time.Now().UnixNano())
	renameErr := os.Rename(l.path, rotated)
	if renameErr != nil {
		fmt.Fprintf(l.fallback, "%s logging: rotate rename: %v\n", LevelError, renameErr)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Without a file there is nothing left to write to; keep the logger
		// alive on the fallback stream.
		fmt.Fprintf(l.fallback, "%s logging: reopen after rotation: %v\n", LevelError, err)
		l.file = nil
		l.out = l.fallback
		l.size = 0
		return
	}
	l.file = file
	l.out = file
	l.size = 0

	if renameErr == nil {
		if err := compressFile(rotated); err != nil {
			fmt.Fprintf(l.fallback, "%s logging: compress rotated log: %v\n", LevelError, err)
		}
	}
}

// compressFile gzips src into src.gz and removes src. The rotated file is
// cold data; compressing it inline keeps rotation free of goroutines.
func compressFile(src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(src + ".gz")
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	in.Close()
	return os.Remove(src)
}
