package flagx

import (
	"errors"
	"flag"
	"path/filepath"
)

// AbsPath is a flag.Value that resolves whatever string it is given
// to an absolute path. backup-pulld uses it for -data-dir, so a
// relative value survives a later os.Chdir unchanged.
type AbsPath string

var _ = flag.Value(new(AbsPath))

func (a AbsPath) String() string {
	return string(a)
}

var EmptyPathError = errors.New("empty path not allowed")

func (a *AbsPath) Set(value string) error {
	if value == "" {
		return EmptyPathError
	}
	path, err := filepath.Abs(value)
	if err != nil {
		return err
	}
	*a = AbsPath(path)
	return nil
}
