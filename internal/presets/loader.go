package presets

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// resolveDir maps a preset id to its directory. The result must be a strict
// descendant of root.
func resolveDir(root, id string) (string, error) {
	if strings.TrimSpace(id) == "" || strings.ContainsRune(id, 0) {
		return "", apperrors.ErrInvalidPresetID(id)
	}
	if filepath.IsAbs(id) || filepath.VolumeName(id) != "" {
		return "", apperrors.ErrPathTraversal(id)
	}

	dir := filepath.Join(root, id)
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", apperrors.ErrPathTraversal(id)
	}
	if rel == "." {
		return "", apperrors.ErrInvalidPresetID(id)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.ErrPathTraversal(id)
	}

	return dir, nil
}

func readManifest(dir, id string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeManifestInvalid, id, "manifest", path, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeManifestInvalid, id, "manifest", path, err)
	}
	if manifest.ID == "" {
		manifest.ID = id
	}

	return &manifest, nil
}

// readOwnTokens returns the partial token tree of one preset. A missing file
// is an empty tree; a present but malformed file is an error.
func readOwnTokens(dir, id string) (map[string]interface{}, error) {
	path := filepath.Join(dir, TokensFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeTokensInvalid, id, "tokens", path, err)
	}

	tree, err := tokens.ParseTree(raw)
	if err != nil {
		return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeTokensInvalid, id, "tokens", path, err)
	}

	return tree, nil
}

// readComponents scans components/<category>/*.json. Directory entries are
// visited in lexicographic order and templates are keyed by their name field,
// so on a name collision the lexicographically last file wins.
func readComponents(ctx context.Context, dir, id string) (map[string]*ComponentTemplate, error) {
	components := make(map[string]*ComponentTemplate)
	root := filepath.Join(dir, ComponentsDir)

	categories, err := readDirIfExists(root, id)
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		if !category.IsDir() {
			continue
		}
		files, err := readDirIfExists(filepath.Join(root, category.Name()), id)
		if err != nil {
			return nil, err
		}
		for _, file := range jsonFiles(files) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path := filepath.Join(root, category.Name(), file)
			var tmpl ComponentTemplate
			if err := readJSONFile(path, &tmpl); err != nil {
				return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeTemplateInvalid, id, "component", path, err)
			}
			if tmpl.Name == "" {
				return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeTemplateInvalid, id, "component", path,
					errors.New("template has no name"))
			}
			components[tmpl.Name] = &tmpl
		}
	}

	return components, nil
}

// readLayouts scans the flat layouts/ directory with the same rules as
// readComponents.
func readLayouts(ctx context.Context, dir, id string) (map[string]*LayoutTemplate, error) {
	layouts := make(map[string]*LayoutTemplate)
	root := filepath.Join(dir, LayoutsDir)

	files, err := readDirIfExists(root, id)
	if err != nil {
		return nil, err
	}

	for _, file := range jsonFiles(files) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(root, file)
		var layout LayoutTemplate
		if err := readJSONFile(path, &layout); err != nil {
			return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeTemplateInvalid, id, "layout", path, err)
		}
		if layout.Name == "" {
			return nil, apperrors.ErrFileInvalid(apperrors.ErrCodeTemplateInvalid, id, "layout", path,
				errors.New("layout has no name"))
		}
		layouts[layout.Name] = &layout
	}

	return layouts, nil
}

// readDirIfExists lists dir sorted by name; a missing directory yields nothing.
func readDirIfExists(dir, id string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewIOError(apperrors.ErrCodeInternalError, "reading preset directory", err).
			WithPreset(id).WithFile(dir)
	}

	return entries, nil
}

func jsonFiles(entries []os.DirEntry) []string {
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func readJSONFile(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
