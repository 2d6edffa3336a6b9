package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type csvOut struct {
	f  *os.File
	w  *csv.Writer
	mu sync.Mutex
}

func (c *csvOut) open(path string, hdr []string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("trace dir %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("trace open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if st, _ := f.Stat(); st != nil && st.Size() == 0 {
		_ = w.Write(hdr)
		w.Flush()
	}
	c.f, c.w = f, w
	return nil
}

func (c *csvOut) write(row []string) {
	if c == nil || c.w == nil {
		return
	}
	c.mu.Lock()
	_ = c.w.Write(row)
	c.w.Flush()
	c.mu.Unlock()
}

func (c *csvOut) close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w != nil {
		c.w.Flush()
	}
	if c.f != nil {
		err := c.f.Close()
		c.f, c.w = nil, nil
		return err
	}
	return nil
}
