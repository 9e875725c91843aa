package storage

import (
	"context"
	"io"

	"github.com/yairfalse/driftcatch/pkg/types"
)

var (
	_ Storage = (*Router)(nil)
	_ Opener  = (*Router)(nil)
	_ Storage = (*LocalStorage)(nil)
	_ Opener  = (*LocalStorage)(nil)
	_ Storage = (*RemoteStorage)(nil)
	_ Opener  = (*RemoteStorage)(nil)
)

// Router dispatches each location to local or remote storage by its scheme
type Router struct {
	config Config
	local  *LocalStorage
	remote *RemoteStorage
}

// New creates a storage router
func New(config Config) *Router {
	if config.SnapshotDir == "" {
		config.SnapshotDir = DefaultSnapshotDir
	}
	return &Router{
		config: config,
		local:  NewLocalStorage(config.BackupDir),
		remote: NewRemoteStorage(config),
	}
}

// Remote exposes the remote backend, e.g. to swap object stores
func (r *Router) Remote() *RemoteStorage {
	return r.remote
}

// SnapshotPath returns the default snapshot location for a source
func (r *Router) SnapshotPath(source string) string {
	return DefaultSnapshotPath(r.config.SnapshotDir, source)
}

func (r *Router) Save(ctx context.Context, snapshot *types.Snapshot, location string) error {
	if IsRemote(location) {
		return r.remote.Save(ctx, snapshot, location)
	}
	return r.local.Save(ctx, snapshot, localPath(location))
}

func (r *Router) Load(ctx context.Context, location string) (*types.Snapshot, error) {
	if IsRemote(location) {
		return r.remote.Load(ctx, location)
	}
	return r.local.Load(ctx, localPath(location))
}

func (r *Router) Exists(ctx context.Context, location string) (bool, error) {
	if IsRemote(location) {
		return r.remote.Exists(ctx, location)
	}
	return r.local.Exists(ctx, localPath(location))
}

func (r *Router) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsRemote(location) {
		return r.remote.Open(ctx, location)
	}
	return r.local.Open(ctx, localPath(location))
}

// Backups lists the backups kept for a local snapshot, newest first.
// Remote locations rely on the object store's own versioning.
func (r *Router) Backups(location string) ([]string, error) {
	if IsRemote(location) {
		return nil, nil
	}
	return r.local.Backups(localPath(location))
}

// localPath strips a file:// prefix
func localPath(location string) string {
	if loc, err := ParseLocation(location); err == nil && !loc.IsRemote() {
		return loc.Path
	}
	return location
}
