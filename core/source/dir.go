package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFiles maps each source to the file name used in a data directory.
func DefaultFiles() map[SourceName]string {
	return map[SourceName]string{
		Fitness:          "fitness_certificates.csv",
		WorkOrders:       "work_orders_maximo.csv",
		Branding:         "branding_schedule.csv",
		Mileage:          "mileage_logs.csv",
		CleaningSchedule: "cleaning_schedule.csv",
		CleaningHistory:  "cleaning_schedule_prev.csv",
		Stabling:         "stabling_layout.csv",
	}
}

// LoadDir reads every source file found in dir. Missing files leave the source
// absent; unreadable files fail the load. A nil files map uses DefaultFiles.
func LoadDir(dir string, files map[SourceName]string) (*Tables, error) {
	if files == nil {
		files = DefaultFiles()
	}
	t := NewTables()
	for _, name := range All() {
		fname, ok := files[name]
		if !ok || fname == "" {
			continue
		}
		if err := loadFile(t, name, filepath.Join(dir, fname)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func loadFile(t *Tables, name SourceName, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return t.Load(name, f)
}
