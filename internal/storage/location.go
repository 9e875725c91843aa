package storage

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yairfalse/driftcatch/internal/errors"
)

// Location schemes
const (
	SchemeLocal = ""
	SchemeS3    = "s3"
	SchemeGCS   = "gcs"
	SchemeAzure = "azurerm"
)

// Location is a parsed snapshot or source location
type Location struct {
	Raw    string
	Scheme string

	// Path is set for local locations
	Path string

	// Bucket is the S3/GCS bucket, or the Azure container
	Bucket string
	// Key is the object key, or the Azure blob name
	Key string
	// Account is the Azure storage account
	Account string
	// Region is the optional S3 region from ?region=
	Region string
}

// IsRemote reports whether the location lives in an object store
func (l Location) IsRemote() bool {
	return l.Scheme != SchemeLocal
}

func (l Location) String() string {
	switch l.Scheme {
	case SchemeS3:
		return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
	case SchemeGCS:
		return fmt.Sprintf("gs://%s/%s", l.Bucket, l.Key)
	case SchemeAzure:
		return fmt.Sprintf("azurerm://%s/%s/%s", l.Account, l.Bucket, l.Key)
	default:
		return l.Path
	}
}

// IsRemote reports whether raw looks like an object store URL
func IsRemote(raw string) bool {
	return strings.Contains(raw, "://") && !strings.HasPrefix(strings.ToLower(raw), "file://")
}

// ParseLocation splits a location into its parts.
//
//	path/to/file.snapshot.json
//	s3://bucket/key?region=eu-west-1
//	gcs://bucket/object (or gs://)
//	azurerm://account/container/blob
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, errors.UsageError("location is empty")
	}
	if !strings.Contains(raw, "://") {
		return Location{Raw: raw, Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, errors.UsageError(fmt.Sprintf("invalid location %q: %v", raw, err))
	}

	loc := Location{Raw: raw}
	switch strings.ToLower(u.Scheme) {
	case "file":
		loc.Path = u.Path
		return loc, nil

	case "s3":
		loc.Scheme = SchemeS3
		loc.Bucket = u.Host
		loc.Key = strings.TrimPrefix(u.Path, "/")
		loc.Region = u.Query().Get("region")
		if loc.Bucket == "" || loc.Key == "" {
			return Location{}, errors.UsageError("S3 location needs a bucket and key: s3://bucket/key")
		}

	case "gcs", "gs":
		loc.Scheme = SchemeGCS
		loc.Bucket = u.Host
		loc.Key = strings.TrimPrefix(u.Path, "/")
		if loc.Bucket == "" || loc.Key == "" {
			return Location{}, errors.UsageError("GCS location needs a bucket and object: gs://bucket/object")
		}

	case "azurerm":
		loc.Scheme = SchemeAzure
		loc.Account = u.Host
		parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
		if len(parts) == 2 {
			loc.Bucket = parts[0]
			loc.Key = parts[1]
		}
		if loc.Account == "" || loc.Bucket == "" || loc.Key == "" {
			return Location{}, errors.UsageError("Azure location needs an account, container and blob: azurerm://account/container/blob")
		}

	default:
		return Location{}, errors.UsageError(fmt.Sprintf("unsupported location scheme %q (expected s3, gcs, gs or azurerm)", u.Scheme))
	}

	return loc, nil
}

// DefaultSnapshotPath derives the snapshot location for a source inside dir
func DefaultSnapshotPath(dir, source string) string {
	if dir == "" {
		dir = DefaultSnapshotDir
	}
	name := strings.ReplaceAll(source, "/", "_") + ".snapshot.json"
	if IsRemote(dir) {
		return strings.TrimRight(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}
