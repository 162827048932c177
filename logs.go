package lars

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// TailLog returns the last n lines of the log file at path. A negative n
// returns every line.
func TailLog(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// FollowLog streams data appended to the log at path into w until ctx is
// done. The file's parent directory is watched rather than the file itself,
// so a log that does not exist yet, or is replaced by the shell redirection
// on the next start, is picked up from its new beginning. Truncation rewinds
// to the start of the file.
func FollowLog(ctx context.Context, path string, w io.Writer) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	var file *os.File
	if f, err := os.Open(path); err == nil {
		_, _ = f.Seek(0, io.SeekEnd)
		file = f
	}

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		if file != nil {
			_ = file.Close()
		}
	})

	drain := func() error {
		if file == nil {
			return nil
		}
		pos, err := file.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		if fi, err := file.Stat(); err == nil && fi.Size() < pos {
			if _, err := file.Seek(0, io.SeekStart); err != nil {
				return err
			}
		}
		_, err = io.Copy(w, file)
		return err
	}

	// Closed when the watch goroutine exits, so an early failure surfaces
	// without waiting for the caller to cancel
	done := make(chan struct{})

	sctx.Go(func(sctx *stopper.Context) error {
		defer close(done)
		for {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != path {
					continue
				}

				if event.Has(fsnotify.Create) {
					if file != nil {
						_ = file.Close()
					}
					f, err := os.Open(path)
					if err != nil {
						continue
					}
					file = f
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if err := drain(); err != nil {
						return err
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					return err
				}
			}
		}
	})

	select {
	case <-ctx.Done():
	case <-done:
	}
	sctx.Stop(100 * time.Millisecond)
	return sctx.Wait()
}
