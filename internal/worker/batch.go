package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

// subtitleExtensions are picked up when a directory is expanded
var subtitleExtensions = map[string]bool{
	".srt": true,
	".vtt": true,
	".ass": true,
	".ssa": true,
	".txt": true,
}

// Analyzer defines the interface for analysing one subtitle file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.Report, error)
}

// FileJob represents a single-file analysis job
type FileJob struct {
	Index    int
	Path     string
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *FileJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	if err != nil {
		return &FileResult{
			Index: j.Index,
			Path:  j.Path,
			Error: err,
		}
	}
	return &FileResult{
		Index:  j.Index,
		Path:   j.Path,
		Report: report,
	}
}

// FileResult represents the result of a file job
type FileResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the file result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor analyses multiple files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessFiles analyses files concurrently. Results come back in input order;
// a failed file carries its error and does not affect the others.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency)
	pool.Start()

	out := make([]*FileResult, len(paths))
	for i, path := range paths {
		job := &FileJob{
			Index:    i,
			Path:     path,
			Analyzer: b.analyzer,
		}
		if !pool.Submit(job) {
			out[i] = &FileResult{Index: i, Path: path, Error: fmt.Errorf("submit %s: %w", path, context.Cause(ctx))}
		}
	}

	for _, result := range pool.Wait() {
		fr := result.(*FileResult)
		out[fr.Index] = fr
	}

	for i, fr := range out {
		if fr == nil {
			out[i] = &FileResult{Index: i, Path: paths[i], Error: fmt.Errorf("analyze %s: not run", paths[i])}
		}
	}

	return out
}

// ExpandInputs turns command-line inputs into a deduplicated file list.
// "@list.txt" reads paths from a list file, directories contribute their
// subtitle files (sorted), anything else is taken as a file path.
func ExpandInputs(inputs []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, input := range inputs {
		if list, ok := strings.CutPrefix(input, "@"); ok {
			listed, err := ReadPathsFromFile(list)
			if err != nil {
				return nil, err
			}
			for _, p := range listed {
				add(p)
			}
			continue
		}

		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			add(input)
			continue
		}

		found, err := subtitleFiles(input)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}

	return paths, nil
}

func subtitleFiles(dir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if subtitleExtensions[strings.ToLower(filepath.Ext(path))] {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}

// ReadPathsFromFile reads file paths from a list file (one per line).
// Relative paths are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
