package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/discovery"
)

// watchState is the last seen content of one watched brainfile.
type watchState struct {
	hash  string
	board *board.Board
}

// watchCommand watches a directory tree for brainfile changes and
// prints a structural diff for every change.
func watchCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile watch", flag.ContinueOnError)
	quiet := fs.Bool("quiet", false, "Only print diffs, no event lines")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	rootDir := cfg.ProjectRoot
	if len(remaining) == 1 {
		rootDir = absPath(cfg, remaining[0])
	}

	logger := newLogger(cfg)

	// Seed per-file state from an initial scan so the first change
	// event diffs against the on-disk content, not against empty.
	result := discovery.Discover(rootDir, discovery.Options{
		Recursive:     cfg.Recursive,
		IncludeHidden: cfg.IncludeHidden,
		MaxDepth:      cfg.MaxDepth,
		ExcludeDirs:   cfg.ExcludeDirs,
	})

	var mu sync.Mutex
	states := make(map[string]*watchState)
	for _, f := range result.Files {
		if st := readWatchState(f.AbsolutePath); st != nil {
			states[f.AbsolutePath] = st
		}
	}
	fmt.Printf("Watching %s (%d brainfile(s))\n", result.Root, len(result.Files))

	w, err := discovery.Watch(rootDir, func(ev discovery.Event) {
		mu.Lock()
		defer mu.Unlock()
		handleWatchEvent(states, ev, *quiet, logger)
	}, func(werr *discovery.WatchError) {
		logger.WithField("path", werr.Path).Warnf("Watch error: %s", werr.Message)
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	fmt.Println("\nStopped watching.")
	return nil
}

// handleWatchEvent updates the state map and prints what changed.
// Callers hold the state lock.
func handleWatchEvent(states map[string]*watchState, ev discovery.Event, quiet bool, logger *log.Logger) {
	switch ev.Type {
	case discovery.EventRemove:
		delete(states, ev.Path)
		if !quiet {
			fmt.Printf("- %s\n", ev.Path)
		}
	case discovery.EventAdd:
		if st := readWatchState(ev.Path); st != nil {
			states[ev.Path] = st
		}
		if !quiet {
			fmt.Printf("+ %s\n", ev.Path)
		}
	case discovery.EventChange:
		next := readWatchState(ev.Path)
		if next == nil {
			return
		}
		prev := states[ev.Path]
		states[ev.Path] = next
		if prev == nil {
			if !quiet {
				fmt.Printf("+ %s\n", ev.Path)
			}
			return
		}
		// Editors often fire several write events per save.
		if prev.hash == next.hash {
			logger.WithField("path", ev.Path).Debug("Content unchanged, skipping diff")
			return
		}
		if !quiet {
			fmt.Printf("~ %s\n", ev.Path)
		}
		if prev.board == nil || next.board == nil {
			return
		}
		d := board.DiffBoards(prev.board, next.board)
		if !d.HasChanges() {
			return
		}
		printDiff(d)
		fmt.Println()
	}
}

// readWatchState parses one brainfile from disk. Unreadable files
// return nil; unparseable ones keep the hash so identical rewrites
// are still detected.
func readWatchState(path string) *watchState {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	st := &watchState{hash: board.HashContent(string(content))}
	if b, err := codec.Parse(string(content)); err == nil {
		st.board = b
	}
	return st
}
