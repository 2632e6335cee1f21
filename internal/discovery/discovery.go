// Package discovery finds brainfiles in a workspace: recursive scans
// with metadata, primary-file resolution, nearest-ancestor lookup,
// and change watching.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nibzard/brainfile-go/internal/codec"
)

// PriorityNames are the primary brainfile names, most preferred
// first. Suffixed variants like brainfile.work.md rank after all of
// these.
var PriorityNames = []string{"brainfile.md", ".brainfile.md", ".bb.md"}

// DefaultExcludeDirs are directory names skipped during scans.
var DefaultExcludeDirs = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	"out",
	".vscode-test",
	"coverage",
	".next",
	".nuxt",
	"vendor",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".ruff_cache",
	"venv",
	".venv",
	"env",
	".env",
}

// DefaultMaxDepth bounds recursive scans.
const DefaultMaxDepth = 10

// metadataWorkers bounds concurrent metadata parsing during a scan.
const metadataWorkers = 4

// File is one discovered brainfile with display metadata.
type File struct {
	AbsolutePath string
	// RelativePath is relative to the scanned root.
	RelativePath string
	// Name is the board title, or the filename without .md when the
	// file has no usable title.
	Name string
	// Type is the resolved document kind, or "unknown" for files
	// that match the naming patterns but do not parse.
	Type    string
	Hidden  bool
	Private bool
	// ItemCount is the number of tasks for boards, zero otherwise.
	ItemCount  int
	ModifiedAt time.Time
}

// Options controls a discovery scan.
type Options struct {
	Recursive     bool
	IncludeHidden bool
	MaxDepth      int
	// ExcludeDirs overrides DefaultExcludeDirs when non-nil.
	ExcludeDirs []string
}

// DefaultOptions returns the standard scan configuration.
func DefaultOptions() Options {
	return Options{
		Recursive:     true,
		IncludeHidden: true,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Result is a completed workspace scan.
type Result struct {
	Root         string
	Files        []File
	TotalItems   int
	DiscoveredAt time.Time
}

// IsBrainfileName reports whether a filename matches the brainfile
// naming patterns, case-insensitively.
func IsBrainfileName(filename string) bool {
	name := strings.ToLower(filepath.Base(filename))
	for _, known := range PriorityNames {
		if name == known {
			return true
		}
	}
	return strings.HasPrefix(name, "brainfile.") && strings.HasSuffix(name, ".md") && name != "brainfile.md"
}

// ExtractSuffix returns the variant suffix of a brainfile name, such
// as "private" from brainfile.private.md, or "" when there is none.
func ExtractSuffix(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	if !strings.HasPrefix(name, "brainfile.") || !strings.HasSuffix(name, ".md") || name == "brainfile.md" {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, "brainfile."), ".md")
}

func isPrivateFile(filename, relativePath string) bool {
	switch ExtractSuffix(filename) {
	case "private", "local", "personal":
		return true
	}
	rel := filepath.ToSlash(relativePath)
	return strings.Contains(rel, "/.") || strings.HasPrefix(rel, ".")
}

// parseFileMetadata reads one candidate file. Files that match the
// naming patterns but fail to parse are still reported, typed
// "unknown", so pickers can show them.
func parseFileMetadata(absolutePath, relativePath string) (File, bool) {
	content, err := os.ReadFile(absolutePath)
	if err != nil {
		return File{}, false
	}
	info, err := os.Stat(absolutePath)
	if err != nil {
		return File{}, false
	}

	filename := filepath.Base(absolutePath)
	file := File{
		AbsolutePath: absolutePath,
		RelativePath: relativePath,
		Name:         strings.TrimSuffix(filename, ".md"),
		Type:         "unknown",
		Hidden:       strings.HasPrefix(filename, "."),
		Private:      isPrivateFile(filename, relativePath),
		ModifiedAt:   info.ModTime(),
	}

	res := codec.ParseWithDetails(string(content), filename)
	if res.Data == nil {
		return file, true
	}

	file.Type = string(res.Kind)
	if title, ok := res.Data["title"].(string); ok && title != "" {
		file.Name = title
	}
	if res.Board != nil {
		file.ItemCount = res.Board.TotalTaskCount()
	} else {
		file.ItemCount = countColumnTasks(res.Data)
	}
	return file, true
}

// countColumnTasks counts tasks in a raw frontmatter map, for
// documents that carry columns without decoding as a board.
func countColumnTasks(data map[string]any) int {
	columns, ok := data["columns"].([]any)
	if !ok {
		return 0
	}
	total := 0
	for _, raw := range columns {
		column, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if tasks, ok := column["tasks"].([]any); ok {
			total += len(tasks)
		}
	}
	return total
}

type candidate struct {
	absolutePath string
	relativePath string
}

func collectCandidates(dirPath, rootDir string, opts Options, depth int) []candidate {
	if depth > opts.MaxDepth {
		return nil
	}
	excluded := opts.ExcludeDirs
	if excluded == nil {
		excluded = DefaultExcludeDirs
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil
	}

	var results []candidate
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		if entry.IsDir() {
			if containsName(excluded, entry.Name()) {
				continue
			}
			if opts.Recursive {
				results = append(results, collectCandidates(fullPath, rootDir, opts, depth+1)...)
			}
			continue
		}

		if !IsBrainfileName(entry.Name()) {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") && !opts.IncludeHidden {
			continue
		}

		relativePath, err := filepath.Rel(rootDir, fullPath)
		if err != nil {
			relativePath = entry.Name()
		}
		results = append(results, candidate{absolutePath: fullPath, relativePath: relativePath})
	}
	return results
}

func containsName(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

// parseCandidates loads metadata for all candidates over a bounded
// worker pool. Order is restored by the caller's sort.
func parseCandidates(candidates []candidate) []File {
	sem := make(chan struct{}, metadataWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var files []File

	for _, c := range candidates {
		wg.Add(1)
		go func(c candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if file, ok := parseFileMetadata(c.absolutePath, c.relativePath); ok {
				mu.Lock()
				files = append(files, file)
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()
	return files
}

// Discover scans a directory tree for brainfiles. Files sort
// shallowest first, then by path.
func Discover(rootDir string, opts Options) Result {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	files := parseCandidates(collectCandidates(absRoot, absRoot, opts, 0))

	sort.Slice(files, func(i, j int) bool {
		di := strings.Count(files[i].RelativePath, string(os.PathSeparator))
		dj := strings.Count(files[j].RelativePath, string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return files[i].RelativePath < files[j].RelativePath
	})

	total := 0
	for _, file := range files {
		total += file.ItemCount
	}

	return Result{
		Root:         absRoot,
		Files:        files,
		TotalItems:   total,
		DiscoveredAt: time.Now(),
	}
}

// FindPrimary returns the main brainfile of a directory: the first
// priority name that exists, then any suffixed variant.
func FindPrimary(rootDir string) *File {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	for _, name := range PriorityNames {
		fullPath := filepath.Join(absRoot, name)
		if _, err := os.Stat(fullPath); err != nil {
			continue
		}
		if file, ok := parseFileMetadata(fullPath, name); ok {
			return &file
		}
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !IsBrainfileName(entry.Name()) {
			continue
		}
		if containsName(PriorityNames, strings.ToLower(entry.Name())) {
			continue
		}
		if file, ok := parseFileMetadata(filepath.Join(absRoot, entry.Name()), entry.Name()); ok {
			return &file
		}
	}
	return nil
}

// FindNearest walks up from startDir, or the working directory when
// empty, until a directory with a primary brainfile is found. This is
// how git finds .git.
func FindNearest(startDir string) *File {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		startDir = wd
	}
	current, err := filepath.Abs(startDir)
	if err != nil {
		current = startDir
	}

	for {
		if found := FindPrimary(current); found != nil {
			return found
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}
		current = parent
	}
}
