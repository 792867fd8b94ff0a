// Package backend selects and constructs the remote mirror adapter.
package backend

import (
	"context"

	"moneymanagement/internal/remote"
)

// Mirror bundles the outbound ports a mirror adapter provides.
type Mirror interface {
	remote.TransactionMirror
	remote.ProfileStore
}

// CleanupFunc releases a mirror's resources.
type CleanupFunc func() error

// MirrorResult contains the mirror instance and optional cleanup function.
type MirrorResult struct {
	Mirror  Mirror
	Cleanup CleanupFunc
}

// Factory creates mirrors based on configuration.
type Factory interface {
	CreateMirror(ctx context.Context, config Config) (*MirrorResult, error)
}

// Config holds configuration for mirror creation.
type Config struct {
	Type MirrorType

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// MirrorType selects the mirror adapter.
type MirrorType string

const (
	SheetsMirror MirrorType = "sheets"
	MemoryMirror MirrorType = "memory"
	NoMirror     MirrorType = "none"
)

func (mt MirrorType) String() string {
	return string(mt)
}

func (mt MirrorType) IsValid() bool {
	switch mt {
	case SheetsMirror, MemoryMirror, NoMirror:
		return true
	default:
		return false
	}
}

// MirrorTypes returns all valid mirror types.
func MirrorTypes() []MirrorType {
	return []MirrorType{SheetsMirror, MemoryMirror, NoMirror}
}
