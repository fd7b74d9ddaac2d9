package stores

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openfroyo/vendcheck/pkg/machine"
)

// FileStore implements Store on the local filesystem. Inputs are record
// files in InputDir; reports are written to OutputDir.
type FileStore struct {
	inputDir  string
	outputDir string
	logger    zerolog.Logger
}

// NewFileStore creates a FileStore. The directories must differ, since Reset
// deletes the output directory.
func NewFileStore(inputDir, outputDir string, logger zerolog.Logger) (*FileStore, error) {
	if inputDir == "" {
		return nil, fmt.Errorf("input directory is required")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	in, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if in == out {
		return nil, fmt.Errorf("output directory must differ from input directory: %s", in)
	}
	if rel, err := filepath.Rel(out, in); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("input directory %s must not be inside output directory %s", in, out)
	}
	if out == filepath.Dir(out) {
		return nil, fmt.Errorf("refusing to use filesystem root as output directory")
	}

	return &FileStore{
		inputDir:  in,
		outputDir: out,
		logger:    logger.With().Str("component", "file-store").Logger(),
	}, nil
}

// InputDir returns the absolute input directory.
func (s *FileStore) InputDir() string {
	return s.inputDir
}

// OutputDir returns the absolute output directory.
func (s *FileStore) OutputDir() string {
	return s.outputDir
}

// ListInputs returns the record files of InputDir. See ListRecordFiles.
func (s *FileStore) ListInputs(ctx context.Context) ([]string, error) {
	ids, err := ListRecordFiles(ctx, s.inputDir)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("dir", s.inputDir).
		Int("inputs", len(ids)).
		Msg("Listed inputs")

	return ids, nil
}

// ListRecordFiles returns the record file names of dir in lexical order.
// Directories, hidden files and files without a record extension are
// skipped.
func ListRecordFiles(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to scan directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !machine.IsRecordFile(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ReadInput reads an input file.
func (s *FileStore) ReadInput(ctx context.Context, id string) ([]byte, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.inputDir, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", id, err)
	}
	return data, nil
}

// WriteReport writes the report for id to OutputDir/ReportName(id). The
// output directory is created if needed.
func (s *FileStore) WriteReport(ctx context.Context, id string, text string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to ensure output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, ReportName(id))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	s.logger.Debug().
		Str("input", id).
		Str("report", path).
		Msg("Report written")

	return nil
}

// Reset removes the output directory and creates it again, empty.
func (s *FileStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory: %w", err)
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	s.logger.Debug().Str("dir", s.outputDir).Msg("Output directory recreated")
	return nil
}

func validateID(id string) error {
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
