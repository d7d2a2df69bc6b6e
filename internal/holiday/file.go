package holiday

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/username/calgrid/pkg/dateutil"
)

// FileSource serves holidays from a local YAML file:
//
//	holidays:
//	  KR:
//	    - "2024-01-01"
//	    - "2024-02-09"
type FileSource struct {
	filePath string
	logger   *zap.Logger

	mu     sync.Mutex
	loaded bool
	data   map[string][]string // region → YYYY-MM-DD
}

type holidayFile struct {
	Holidays map[string][]string `yaml:"holidays"`
}

// NewFileSource creates a FileSource. The file is read on first use.
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]string),
	}
}

// Load (re)reads the file
func (fs *FileSource) Load() error {
	raw, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}

	var parsed holidayFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed to parse holiday file: %w", err)
	}

	data := make(map[string][]string, len(parsed.Holidays))
	total := 0
	for region, dates := range parsed.Holidays {
		region = strings.ToUpper(region)
		for _, d := range dates {
			d = strings.TrimSpace(d)
			if _, err := time.Parse(dateutil.ISODate, d); err != nil {
				fs.logger.Warn("Failed to parse date",
					zap.String("region", region),
					zap.String("date", d),
					zap.Error(err))
				continue
			}
			data[region] = append(data[region], d)
			total++
		}
	}

	fs.mu.Lock()
	fs.data = data
	fs.loaded = true
	fs.mu.Unlock()

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("regions", len(data)),
		zap.Int("dates", total))

	return nil
}

// Holidays implements Source
func (fs *FileSource) Holidays(ctx context.Context, year int, region string) ([]Holiday, error) {
	fs.mu.Lock()
	loaded := fs.loaded
	fs.mu.Unlock()
	if !loaded {
		if err := fs.Load(); err != nil {
			return nil, err
		}
	}

	fs.mu.Lock()
	dates := fs.data[strings.ToUpper(region)]
	fs.mu.Unlock()

	prefix := strconv.Itoa(year) + "-"
	var holidays []Holiday
	for _, d := range dates {
		if strings.HasPrefix(d, prefix) {
			holidays = append(holidays, Holiday{Date: d})
		}
	}
	if len(holidays) == 0 {
		return nil, fmt.Errorf("no holidays for %s in %s: %w", strings.ToUpper(region), fs.filePath, ErrNoData)
	}
	return holidays, nil
}
