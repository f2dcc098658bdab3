package output

import (
	"context"

	"github.com/westward-dev/westward/internal/domain/model/board"
)

// BoardScanner discovers hardware targets by walking board metadata files
// under the given root directories. Roots that do not exist are skipped;
// later roots win when two definitions share a board name.
type BoardScanner interface {
	Scan(ctx context.Context, roots []string) ([]board.Board, error)
}
