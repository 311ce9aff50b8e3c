package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/pipeline"
)

// stdio is the path argument that selects stdin or stdout.
const stdio = "-"

// readTree loads a tree document from path, or from stdin when path is "-".
func readTree(path string) (*csm.Tree, error) {
	if path == stdio {
		t, err := graph.ReadTree(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read tree from stdin: %w", err)
		}
		return t, nil
	}
	t, err := graph.ReadTreeFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tree %s: %w", path, err)
	}
	return t, nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == stdio {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeJSONOutput writes v as indented JSON to path (or stdout).
func writeJSONOutput(path string, v any) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := graph.WriteJSON(out, v); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdio {
			return "tree"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns the file an artifact of the given format is written
// to. A single artifact goes exactly to output when one is given.
func artifactPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// writeArtifacts writes every rendered artifact and prints the paths.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := artifactPath(output, input, f, len(formats) == 1)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// formatFromPath infers the output format from a file extension.
func formatFromPath(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ext, pipeline.ValidFormats[ext]
}
