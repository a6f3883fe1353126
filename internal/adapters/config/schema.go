package config

// Projectfile represents the structure of the dr.yaml configuration file.
type Projectfile struct {
	Version    string         `yaml:"version"`
	Name       string         `yaml:"name"`
	Model      string         `yaml:"model,omitempty"`
	Changesets *ChangesetsDTO `yaml:"changesets,omitempty"`
	Commit     *CommitDTO     `yaml:"commit,omitempty"`
}

// ChangesetsDTO configures changeset storage.
type ChangesetsDTO struct {
	Backend string `yaml:"backend,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// CommitDTO configures commit defaults.
type CommitDTO struct {
	Validate *bool `yaml:"validate,omitempty"`
}
