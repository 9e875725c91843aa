package errors

// MalformedInputError reports a source that cannot be parsed as CSV or JSON
func MalformedInputError(path string, err error) *DriftError {
	e := Wrap(ErrorTypeMalformedInput, "malformed input", err).WithPath(path)
	e.WithCause(describe(err))
	e.WithSolutions(
		"Check that the file is comma-delimited CSV with a header row, or a JSON array of flat objects",
		"Force the parser with --format csv or --format json if the extension is misleading",
	)
	e.WithHelp("driftcatch snapshot --help")
	return e
}

// IOError reports a filesystem or object store failure
func IOError(path string, err error) *DriftError {
	e := Wrap(ErrorTypeIO, "i/o failure", err).WithPath(path)
	e.WithCause(describe(err))
	e.WithSolutions(
		"Check that the directory is writable and the disk is not full",
		"For remote locations, check credentials and bucket permissions",
	)
	return e
}

// NotFoundError reports a snapshot location that does not exist
func NotFoundError(path string, err error) *DriftError {
	e := Wrap(ErrorTypeNotFound, "snapshot not found", err).WithPath(path)
	e.WithSolutions(
		"Create a snapshot first: driftcatch snapshot <source> -o "+path,
		"Check the path for typos",
	)
	e.WithHelp("driftcatch snapshot --help")
	return e
}

// CorruptSnapshotError reports a snapshot file that does not have the snapshot shape
func CorruptSnapshotError(path string, err error) *DriftError {
	e := Wrap(ErrorTypeCorruptSnapshot, "corrupt snapshot", err).WithPath(path)
	e.WithCause(describe(err))
	e.WithSolutions(
		`Snapshots must be JSON objects with "source", "captured_at" and "columns" keys`,
		"Regenerate the snapshot with driftcatch snapshot",
	)
	return e
}

// ConfigurationError reports an invalid configuration value
func ConfigurationError(message string, err error) *DriftError {
	e := Wrap(ErrorTypeConfiguration, message, err)
	e.WithSolutions("Check .driftcatch/config.yaml and DRIFTCATCH_* environment variables")
	return e
}

// UsageError reports invalid command usage
func UsageError(message string) *DriftError {
	return New(ErrorTypeUsage, message)
}

// SourceNotFoundError reports a CSV or JSON source that does not exist
func SourceNotFoundError(path string, err error) *DriftError {
	e := Wrap(ErrorTypeNotFound, "source not found", err).WithPath(path)
	e.WithSolutions(
		"Check the path for typos",
		"Use - to read the source from stdin",
	)
	return e
}
