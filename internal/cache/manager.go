package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// FileInfo describes one persisted cache file for the stats report.
type FileInfo struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Bytes    int64  `json:"bytes"`
	Modified string `json:"modified"`
}

// Stats is the cache_stats report.
type Stats struct {
	MemoryKeys int        `json:"memory_cache_keys"`
	Dir        string     `json:"cache_directory"`
	Files      []FileInfo `json:"local_cache_files"`
	TotalFiles int        `json:"total_files"`
	TotalSize  string     `json:"total_size"`
}

// Manager bundles the two cache tiers for administrative operations.
type Manager struct {
	Snapshots *SnapshotCache
	History   *HistoryStore
}

// NewManager wraps existing cache tiers.
func NewManager(snapshots *SnapshotCache, history *HistoryStore) *Manager {
	return &Manager{Snapshots: snapshots, History: history}
}

// Stats reports memory key count and per-file size/mtime for the disk tier.
func (m *Manager) Stats() (*Stats, error) {
	stats := &Stats{
		MemoryKeys: m.Snapshots.Len(),
		Dir:        m.History.Dir(),
		Files:      []FileInfo{},
	}
	paths, err := filepath.Glob(filepath.Join(m.History.Dir(), "*.parquet"))
	if err != nil {
		return nil, err
	}
	var total int64
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		total += fi.Size()
		stats.Files = append(stats.Files, FileInfo{
			Name:     filepath.Base(p),
			Size:     humanize.Bytes(uint64(fi.Size())),
			Bytes:    fi.Size(),
			Modified: fi.ModTime().Format(time.RFC3339),
		})
	}
	stats.TotalFiles = len(stats.Files)
	stats.TotalSize = humanize.Bytes(uint64(total))
	return stats, nil
}

// ClearResult reports what a clear operation removed.
type ClearResult struct {
	Type          string `json:"cache_type"`
	Symbol        string `json:"symbol,omitempty"`
	MemoryCleared bool   `json:"memory_cleared,omitempty"`
	FilesDeleted  int    `json:"local_files_deleted,omitempty"`
}

// Clear wipes the requested tier(s). kind is "memory", "local" or "all";
// local clearing may be scoped to one symbol.
func (m *Manager) Clear(kind, symbol string) (*ClearResult, error) {
	result := &ClearResult{Type: kind, Symbol: symbol}
	switch kind {
	case "memory", "local", "all":
	default:
		return nil, fmt.Errorf("unknown cache type %q (want memory, local or all)", kind)
	}
	if kind == "memory" || kind == "all" {
		if symbol != "" {
			m.Snapshots.ClearPrefix("quote:" + symbol)
		} else {
			m.Snapshots.Clear("")
		}
		result.MemoryCleared = true
	}
	if kind == "local" || kind == "all" {
		n, err := m.History.Clear(symbol)
		if err != nil {
			return nil, err
		}
		result.FilesDeleted = n
	}
	return result, nil
}
