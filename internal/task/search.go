package task

import (
	"bufio"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/perr"
	"github.com/connorleisz/pane/internal/registry"
)

// externalSearchTimeout bounds an entire search process (spec.md section
// 4.3.4: "overall 30s default").
const externalSearchTimeout = 30 * time.Second

// lineReadTimeout bounds a single stdout line read; a process gone quiet
// past this is killed (spec.md section 4.3.4: "5s per line read").
const lineReadTimeout = 5 * time.Second

// filenameSearchBatch is how many candidate paths accumulate before a
// streaming ShowFilenameSearchResults batch is emitted.
const filenameSearchBatch = 32

// FilenameSearch spawns fd, falling back to find, to locate paths matching
// query under root, streaming Light ObjectInfo batches as lines arrive
// (spec.md section 4.3.4).
func FilenameSearch(root, query string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		cmdName, args := filenameSearchCommand(root, query)
		if cmdName == "" {
			emit(action.ShowNotificationAction(
				perr.New(perr.KindToolMissing, "task.search", "", nil).Error(), 3))
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, externalSearchTimeout)
		defer cancel()
		lines := make(chan string)
		done := make(chan error, 1)
		go runStreamingCommand(ctx, cmdName, args, lines, done)

		var batch []*registry.ObjectInfo
		flush := func() {
			if len(batch) > 0 {
				emit(action.ShowFilenameSearchResultsAction(batch))
				batch = nil
			}
		}
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					flush()
					return nil
				}
				path := strings.TrimSpace(line)
				if path == "" {
					continue
				}
				info := registry.LightInfo(path, path, registry.KindFile, strings.HasPrefix(path, "."))
				batch = append(batch, info)
				if len(batch) >= filenameSearchBatch {
					flush()
				}
			case err := <-done:
				flush()
				if err != nil {
					emit(action.ShowNotificationAction(
						perr.New(perr.KindToolFailed, "task.search", "", err).Error(), 3))
				}
				return nil
			case <-ctx.Done():
				flush()
				return nil
			}
		}
	}
}

func filenameSearchCommand(root, query string) (string, []string) {
	if path, err := exec.LookPath("fd"); err == nil {
		return path, []string{"--color", "never", query, root}
	}
	if path, err := exec.LookPath("find"); err == nil {
		return path, []string{root, "-iname", "*" + query + "*"}
	}
	return "", nil
}

// ContentSearch spawns ripgrep with colored output, stripping ANSI
// sequences before display and parsing file:line prefixes when present
// (spec.md section 4.3.4).
func ContentSearch(root, query string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		path, err := exec.LookPath("rg")
		if err != nil {
			emit(action.ShowNotificationAction(
				perr.New(perr.KindToolMissing, "task.search", "", err).Error(), 3))
			return nil
		}
		args := []string{"--color", "always", "--line-number", "--", query, root}
		ctx, cancel := context.WithTimeout(ctx, externalSearchTimeout)
		defer cancel()
		lines := make(chan string)
		done := make(chan error, 1)
		go runStreamingCommand(ctx, path, args, lines, done)

		var batch []*registry.ObjectInfo
		flush := func() {
			if len(batch) > 0 {
				emit(action.ShowContentSearchResultsAction(batch))
				batch = nil
			}
		}
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					flush()
					return nil
				}
				clean := ansi.Strip(line)
				filePath, lineNo := splitFileLine(clean)
				if filePath == "" {
					continue
				}
				info := registry.LightInfo(filePath, filePath, registry.KindFile, false)
				info.Line = lineNo
				batch = append(batch, info)
				if len(batch) >= filenameSearchBatch {
					flush()
				}
			case err := <-done:
				flush()
				if err != nil {
					emit(action.ShowNotificationAction(
						perr.New(perr.KindToolFailed, "task.search", "", err).Error(), 3))
				}
				return nil
			case <-ctx.Done():
				flush()
				return nil
			}
		}
	}
}

// splitFileLine parses ripgrep's "path:line:content" prefix, returning the
// path and the parsed line number (0 if absent or unparseable).
func splitFileLine(line string) (path string, lineNo int) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 2 {
		return line, 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return parts[0], 0
	}
	return parts[0], n
}

// runStreamingCommand runs cmd, sending each stdout line to lines in
// emission order and the final error (nil on a clean exit or a "no
// matches" exit code 1) to done. It honors ctx for overall cancellation and
// lineReadTimeout for stalled output.
func runStreamingCommand(ctx context.Context, cmdPath string, args []string, lines chan<- string, done chan<- error) {
	defer close(lines)
	c := exec.CommandContext(ctx, cmdPath, args...)
	stdout, err := c.StdoutPipe()
	if err != nil {
		done <- err
		return
	}
	if err := c.Start(); err != nil {
		done <- err
		return
	}

	scanned := make(chan string)
	go func() {
		defer close(scanned)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			scanned <- scanner.Text()
		}
	}()

	for {
		select {
		case line, ok := <-scanned:
			if !ok {
				done <- waitIgnoringNoMatch(c)
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				c.Process.Kill()
				done <- ctx.Err()
				return
			}
		case <-time.After(lineReadTimeout):
			c.Process.Kill()
			done <- perr.New(perr.KindSearchTimeout, "task.search", cmdPath, nil)
			return
		case <-ctx.Done():
			c.Process.Kill()
			done <- ctx.Err()
			return
		}
	}
}

// waitIgnoringNoMatch reports the command's exit error, except that exit
// code 1 (the grep-family convention for "no matches found") is treated as
// success.
func waitIgnoringNoMatch(c *exec.Cmd) error {
	err := c.Wait()
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return nil
	}
	return err
}
