package storage

import (
	"context"
	"io"

	"github.com/yairfalse/driftcatch/pkg/types"
)

// DefaultSnapshotDir is where snapshots go when no output path is given
const DefaultSnapshotDir = ".driftcatch"

// Storage persists snapshots at a location: a local path or an object store URL
type Storage interface {
	Save(ctx context.Context, snapshot *types.Snapshot, location string) error
	Load(ctx context.Context, location string) (*types.Snapshot, error)
	Exists(ctx context.Context, location string) (bool, error)
}

// Opener streams raw bytes from a location. Used for remote data sources.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Config holds storage configuration
type Config struct {
	SnapshotDir string `json:"snapshot_dir" yaml:"snapshot_dir"`
	BackupDir   string `json:"backup_dir,omitempty" yaml:"backup_dir,omitempty"`
	AWSRegion   string `json:"aws_region,omitempty" yaml:"aws_region,omitempty"`
}
