package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/util"
	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// WatchedBuild is a build that keeps rebuilding the application on source
// changes until it is closed.
type WatchedBuild struct {
	builder *Builder
	args    []string
	data    templateData

	watcher *fsnotify.Watcher
	ignore  []glob.Glob

	// firstDone is closed when the first build pass is completed.
	firstDone chan struct{}
	firstErr  error

	// done is closed by Close to stop the watch loop.
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// Start creates a watcher over the watch directories and starts the first
// build pass in the background. Use Wait to get its result.
func (b *Builder) Start(environment, outputPath string) (*WatchedBuild, error) {
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, err
	}
	data := templateData{Environment: environment, OutputPath: outputPath}
	args, err := expandCommand(b.Command, data)
	if err != nil {
		return nil, err
	}

	wb := &WatchedBuild{
		builder:   b,
		args:      args,
		data:      data,
		firstDone: make(chan struct{}),
		done:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}

	for _, pattern := range b.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		wb.ignore = append(wb.ignore, g)
	}

	if wb.watcher, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, dir := range b.WatchDirs {
		if !util.IsDir(dir) {
			log.Debugf("Watch directory %q does not exist, skipping", dir)
			continue
		}
		if err := wb.watchTree(dir); err != nil {
			wb.watcher.Close()
			return nil, err
		}
	}

	go wb.loop()
	return wb, nil
}

// Wait waits for the first build pass and returns its result.
// Rebuilds are not waited for.
func (wb *WatchedBuild) Wait() error {
	<-wb.firstDone
	return wb.firstErr
}

// Close stops watching. A running build pass is waited for.
func (wb *WatchedBuild) Close() error {
	var err error
	wb.closeOnce.Do(func() {
		close(wb.done)
		err = wb.watcher.Close()
		<-wb.loopDone
	})
	return err
}

// isIgnored checks whether path must not be watched or trigger a rebuild.
func (wb *WatchedBuild) isIgnored(path string) bool {
	if path == wb.data.OutputPath || util.IsSubPath(wb.data.OutputPath, path) {
		return true
	}

	rel := path
	if projectDir, err := filepath.Abs(wb.builder.ProjectDir); err == nil {
		if r, err := filepath.Rel(projectDir, path); err == nil {
			rel = r
		}
	}
	rel = "/" + filepath.ToSlash(rel)
	for _, g := range wb.ignore {
		if g.Match(rel) || g.Match(rel+"/") {
			return true
		}
	}
	return false
}

// watchTree adds dir and all its not ignored subdirectories to the watcher.
func (wb *WatchedBuild) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if wb.isIgnored(absPath) {
			return filepath.SkipDir
		}
		if err := wb.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %q: %w", absPath, err)
		}
		log.Debugf("Watching %q", absPath)
		return nil
	})
}

// loop runs the first build pass and then rebuilds on changes until Close.
func (wb *WatchedBuild) loop() {
	defer close(wb.loopDone)

	wb.firstErr = wb.builder.runPass(wb.args, wb.data)
	close(wb.firstDone)

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-wb.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-wb.watcher.Events:
			if !ok {
				return
			}
			if !wb.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(wb.builder.Debounce)
			} else {
				timer.Reset(wb.builder.Debounce)
			}
			timerC = timer.C
		case err, ok := <-wb.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("Watcher error: %s", err)
		case <-timerC:
			timerC = nil
			select {
			case <-wb.done:
				return
			default:
			}
			log.Debugf("Rebuilding %q", wb.data.OutputPath)
			err := wb.builder.runPass(wb.args, wb.data)
			if wb.builder.OnRebuild != nil {
				wb.builder.OnRebuild(err)
			}
		}
	}
}

// handleEvent updates the watch list and reports whether event must
// trigger a rebuild.
func (wb *WatchedBuild) handleEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if wb.isIgnored(event.Name) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if fileInfo, err := os.Stat(event.Name); err == nil && fileInfo.IsDir() {
			if err := wb.watchTree(event.Name); err != nil {
				log.Warnf("%s", err)
			}
		}
	}
	log.Debugf("Change detected: %s", event)
	return true
}
