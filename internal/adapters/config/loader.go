// Package config provides the configuration loader for dr.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/domain"
	"github.com/tinkermonkey/documentation-robotics-sub001/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ConfigVersion is the dr.yaml schema version written by WriteDefault.
const ConfigVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the workspace for cwd. Without a dr.yaml the defaults rooted at cwd are used.
func (l *Loader) Load(cwd string) (*domain.Workspace, error) {
	configPath, found := findConfiguration(cwd)
	if !found {
		return domain.DefaultWorkspace(filepath.Clean(cwd)), nil
	}

	var projectfile Projectfile
	if err := readAndUnmarshalYAML(configPath, &projectfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return l.resolve(configPath, &projectfile)
}

// DiscoverRoot walks up from cwd to find the directory containing dr.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, found := findConfiguration(cwd)
	if !found {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, domain.ConfigFileName+" not found"), "cwd", cwd)
	}
	return filepath.Dir(configPath), nil
}

// WriteDefault writes a dr.yaml with the default layout under root.
func (l *Loader) WriteDefault(root, name string) (*domain.Workspace, error) {
	validate := true
	projectfile := Projectfile{
		Version: ConfigVersion,
		Name:    name,
		Model:   filepath.ToSlash(domain.DefaultModelPath()),
		Changesets: &ChangesetsDTO{
			Backend: string(domain.BackendFile),
			Path:    filepath.ToSlash(domain.DefaultChangesetsPath()),
		},
		Commit: &CommitDTO{Validate: &validate},
	}

	data, err := yaml.Marshal(&projectfile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal config")
	}

	configPath := filepath.Join(root, domain.ConfigFileName)
	if err := os.WriteFile(configPath, data, domain.FilePerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to write config"), "path", configPath)
	}

	return l.resolve(configPath, &projectfile)
}

func (l *Loader) resolve(configPath string, projectfile *Projectfile) (*domain.Workspace, error) {
	root := filepath.Dir(configPath)
	ws := domain.DefaultWorkspace(root)
	ws.ConfigPath = configPath

	if projectfile.Version != "" && projectfile.Version != ConfigVersion && l.Logger != nil {
		l.Logger.Warn(fmt.Sprintf("unknown %s version %q, reading as version %s", domain.ConfigFileName, projectfile.Version, ConfigVersion))
	}
	if projectfile.Name != "" {
		ws.Name = projectfile.Name
	}
	if projectfile.Model != "" {
		ws.ModelPath = resolvePath(root, projectfile.Model)
	}

	if cs := projectfile.Changesets; cs != nil {
		if cs.Backend != "" {
			backend := domain.StorageBackend(cs.Backend)
			switch backend {
			case domain.BackendFile:
			case domain.BackendBadger:
				ws.ChangesetsPath = filepath.Join(root, domain.DefaultChangesetsDBPath())
			default:
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidStorageBackend, "invalid config"), "backend", cs.Backend)
			}
			ws.Backend = backend
		}
		if cs.Path != "" {
			ws.ChangesetsPath = resolvePath(root, cs.Path)
		}
	}

	if projectfile.Commit != nil && projectfile.Commit.Validate != nil {
		ws.ValidateOnCommit = *projectfile.Commit.Validate
	}

	return ws, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func resolvePath(root, configured string) string {
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(root, filepath.FromSlash(configured)))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by walking up from cwd
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
