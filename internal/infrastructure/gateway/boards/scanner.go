// Package boards discovers buildable hardware targets by scanning board
// metadata files under the workspace source trees.
package boards

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/westward-dev/westward/internal/domain/model/board"
)

const metadataFile = "board.yml"

// boardDoc covers both metadata shapes: a single board entry and the
// multi-board form used by definition folders that host several targets.
type boardDoc struct {
	Board  boardEntry   `yaml:"board"`
	Boards []boardEntry `yaml:"boards"`
}

type boardEntry struct {
	Name   string `yaml:"name"`
	Vendor string `yaml:"vendor"`
}

// Scanner implements output.BoardScanner by walking each root for board.yml
// files. Roots are scanned in parallel and merged in argument order so that
// later roots override earlier definitions with the same name.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) Scan(ctx context.Context, roots []string) ([]board.Board, error) {
	perRoot := make([][]board.Board, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			found, err := scanRoot(gctx, root)
			if err != nil {
				return err
			}
			perRoot[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]board.Board)
	for _, found := range perRoot {
		for _, b := range found {
			merged[b.Name] = b
		}
	}

	out := make([]board.Board, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func scanRoot(ctx context.Context, root string) ([]board.Board, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	var found []board.Board
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != metadataFile {
			return nil
		}
		// Malformed metadata files contribute no boards.
		boards, perr := parseMetadata(path)
		if perr != nil {
			return nil
		}
		found = append(found, boards...)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return found, nil
}

func parseMetadata(path string) ([]board.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc boardDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	entries := doc.Boards
	if doc.Board.Name != "" {
		entries = append(entries, doc.Board)
	}

	boards := make([]board.Board, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		boards = append(boards, board.Board{Name: e.Name, Vendor: e.Vendor, Dir: dir})
	}
	return boards, nil
}
