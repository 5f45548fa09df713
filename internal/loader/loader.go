package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"contractrag/internal/domain"
)

// Load reads every .txt file in dataPath into a Document. Files are
// returned in lexical filename order so repeated builds over the same
// directory produce identical chunk sequences.
func Load(dataPath string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, fmt.Errorf("%w: data path %s: %v", domain.ErrNoDocuments, dataPath, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no .txt files in %s", domain.ErrNoDocuments, dataPath)
	}
	sort.Strings(names)

	documents := make([]domain.Document, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dataPath, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		documents = append(documents, domain.Document{Filename: name, Content: string(content)})
	}
	return documents, nil
}

// ListFiles returns the .txt filenames currently present in dataPath,
// sorted. A missing directory yields an empty list.
func ListFiles(dataPath string) ([]string, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
