package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"fastighet/internal/shared/logger"
)

var gooseFilePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)

// Generator writes new goose migration files into the scripts directory.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGenerator creates a new migration generator
func NewGenerator(scriptsPath string) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      logger.NewLogger().With("component", "migration.generator"),
	}
}

// CreateMigration creates the next sequentially numbered migration and
// returns its path.
func (g *Generator) CreateMigration(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "", fmt.Errorf("migration name is required")
	}

	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create scripts directory: %w", err)
	}

	next, err := g.nextVersion()
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(g.scriptsPath, fmt.Sprintf("%05d_%s.sql", next, name))
	if err := os.WriteFile(filePath, []byte(g.template(name)), 0644); err != nil {
		return "", fmt.Errorf("failed to write migration file: %w", err)
	}

	g.logger.Infow("migration file created successfully", "file", filePath)
	return filePath, nil
}

func (g *Generator) nextVersion() (int64, error) {
	entries, err := os.ReadDir(g.scriptsPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read scripts directory: %w", err)
	}

	var versions []int64
	for _, entry := range entries {
		m := gooseFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return 1, nil
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions[len(versions)-1] + 1, nil
}

func (g *Generator) template(name string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- +goose Up

-- +goose Down
`, name, time.Now().Format("2006-01-02 15:04:05"))
}
