package projectpath

import (
	"path/filepath"
	"runtime"
)

var (
	_, b, _, _ = runtime.Caller(0)

	// root of the repository, two levels above this file
	Root = filepath.Join(filepath.Dir(b), "..", "..")
)
