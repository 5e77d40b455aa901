package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/fdpharvest/profile"
)

// DirSink writes each package as <dir>/<name>.json.
type DirSink struct {
	dir string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sink directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Publish writes pkg, replacing an earlier version of the same record.
func (s *DirSink) Publish(ctx context.Context, guid string, pkg profile.Package) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	msg := newMessage(guid, pkg)
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal package: %w", err)
	}

	path := filepath.Join(s.dir, msg.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write package: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write package: %w", err)
	}
	return msg.ID, nil
}
