// Package deploy loads local service descriptors: JSON documents describing a single named
// service and the modules it is made of.
package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// DefaultRoot is the directory holding one sub-directory per service.
	DefaultRoot = "./artifacts"
	// DescriptorFile is the name of the descriptor file within a service directory.
	DescriptorFile = "deploy.json"
)

var (
	// ErrServiceCount signals a descriptor with zero or more than one top-level service.
	ErrServiceCount = errors.New("descriptor must contain a single service")
	// ErrInvalidModule signals a module lacking required fields.
	ErrInvalidModule = errors.New("invalid module")
)

// Service is a named list of modules.
type Service struct {
	Name    string
	Modules []Module
	// Dir is the directory the descriptor was loaded from.  Relative module paths are
	// resolved against it.
	Dir string
}

// Module describes one deployable module of a service.
type Module struct {
	Name           string      `json:"name"`
	Path           string      `json:"path"`
	PreopenedFiles []string    `json:"preopened_files,omitempty"`
	MappedDirs     []MappedDir `json:"mapped_dirs,omitempty"`
}

// MappedDir maps a host directory into the module.  It is encoded as a two element array.
type MappedDir struct {
	From string
	To   string
}

func (d MappedDir) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{d.From, d.To})
}

func (d *MappedDir) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: mapped dir must be a [from, to] pair, got %d elements", ErrInvalidModule, len(pair))
	}
	d.From, d.To = pair[0], pair[1]
	return nil
}

// Load reads the descriptor of the named service under root.  If root is empty,
// DefaultRoot is used.
func Load(root, name string) (*Service, error) {
	if root == "" {
		root = DefaultRoot
	}
	dir := filepath.Join(root, name)
	f, err := os.Open(filepath.Join(dir, DescriptorFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	svc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load service %s: %w", name, err)
	}
	svc.Dir = dir
	return svc, nil
}

// Parse decodes and validates a descriptor.
func Parse(r io.Reader) (*Service, error) {
	var doc map[string]struct {
		Modules []Module `json:"modules"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if len(doc) != 1 {
		return nil, fmt.Errorf("%w, was %d", ErrServiceCount, len(doc))
	}

	var svc Service
	for name, v := range doc {
		svc.Name = name
		svc.Modules = v.Modules
	}
	for i, m := range svc.Modules {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: module %d of %s has no name", ErrInvalidModule, i, svc.Name)
		}
		if m.Path == "" {
			return nil, fmt.Errorf("%w: module %s has no path", ErrInvalidModule, m.Name)
		}
	}
	return &svc, nil
}

// ModulePath returns the path of m, resolved against the descriptor directory if relative.
func (s *Service) ModulePath(m Module) string {
	if filepath.IsAbs(m.Path) || s.Dir == "" {
		return m.Path
	}
	return filepath.Join(s.Dir, m.Path)
}
