// Package manifest checks and bumps the versions of a tree of package.json manifests that
// reference each other.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("pin-provider/manifest")

const (
	// FileName is the name of the manifest files.
	FileName = "package.json"
	// DefaultRoot is the directory searched for manifests by default.
	DefaultRoot = "src/aqua"
)

var (
	// ErrVersionMismatch signals a reference to an internal package that does not state the
	// version of that package.
	ErrVersionMismatch = errors.New("versions don't match")
	// ErrMissingPackageVersion signals a manifest whose package has no known version.
	ErrMissingPackageVersion = errors.New("failed to get version for package")
)

// dependencySections lists the manifest fields holding references to other packages.
var dependencySections = []string{"dependencies", "devDependencies"}

// renderOptions lays out manifests with four space indentation and every array element
// on its own line.
var renderOptions = &pretty.Options{Width: -1, Indent: "    "}

// skipDirs are never searched for manifests.
var skipDirs = map[string]struct{}{
	"node_modules":       {},
	"integrations-tests": {},
}

// Manifest is a parsed package.json.
type Manifest struct {
	Path    string
	Name    string
	Version string
	doc     []byte
}

// Discover returns the paths of every manifest below root in lexical order.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == FileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Load reads and parses the manifests at paths concurrently.  The result has the order of
// paths.
func Load(ctx context.Context, paths []string) ([]*Manifest, error) {
	manifests := make([]*Manifest, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			m, err := parse(path)
			if err != nil {
				return err
			}
			manifests[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return manifests, nil
}

func parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("cannot parse %s: invalid JSON", path)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("cannot parse %s: not a JSON object", path)
	}
	return &Manifest{
		Path:    path,
		Name:    stringOf(doc.Get("name")),
		Version: stringOf(doc.Get("version")),
		doc:     data,
	}, nil
}

// stringOf returns the value of r if it is a JSON string, or an empty string otherwise.
func stringOf(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// Versions maps the name of every internal package to its canonical version.
func Versions(manifests []*Manifest) map[string]string {
	versions := make(map[string]string, len(manifests))
	for _, m := range manifests {
		if m.Name == "" {
			continue
		}
		versions[m.Name] = m.Version
	}
	return versions
}

// Check verifies that every reference to an internal package states its canonical version.
// References containing a '*' wildcard are exempt.  Every mismatch found is reported; each
// wraps ErrVersionMismatch.
func Check(manifests []*Manifest, versions map[string]string) error {
	var merr *multierror.Error
	for _, m := range manifests {
		log.Debugw("Checking", "path", m.Path)
		err := m.eachReference(versions, func(_, name, ref string) error {
			if strings.Contains(ref, "*") {
				return nil
			}
			if want := versions[name]; ref != want {
				return fmt.Errorf("%w: %s:%s !== %s in %s", ErrVersionMismatch, name, ref, want, m.Path)
			}
			return nil
		})
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

// Bump renders every manifest with postfix appended to its own version and to each of its
// references to internal packages.  Nothing is written; the rendered documents are returned
// in the order of manifests.
func Bump(manifests []*Manifest, versions map[string]string, postfix string) ([][]byte, error) {
	out := make([][]byte, 0, len(manifests))
	for _, m := range manifests {
		doc, err := m.bumped(versions, postfix)
		if err != nil {
			return nil, err
		}
		out = append(out, render(doc))
	}
	return out, nil
}

// bumped returns an edited copy of the manifest document; m stays as loaded.
func (m *Manifest) bumped(versions map[string]string, postfix string) ([]byte, error) {
	version := versions[m.Name]
	if version == "" {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingPackageVersion, m.Name, m.Path)
	}

	doc := m.doc
	err := m.eachReference(versions, func(path, name, _ string) error {
		var err error
		doc, err = sjson.SetBytes(doc, path, versions[name]+"-"+postfix)
		if err != nil {
			return fmt.Errorf("cannot bump %s in %s: %w", name, m.Path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "version", version+"-"+postfix); err != nil {
		return nil, fmt.Errorf("cannot bump version in %s: %w", m.Path, err)
	}
	return doc, nil
}

// eachReference calls fn for every dependency entry naming an internal package, in
// document order.  path locates the entry in the manifest document.
func (m *Manifest) eachReference(versions map[string]string, fn func(path, name, ref string) error) error {
	for _, key := range dependencySections {
		section := gjson.GetBytes(m.doc, key)
		if !section.Exists() || section.Type == gjson.Null {
			continue
		}
		if !section.IsObject() {
			return fmt.Errorf("cannot parse %s: %s is not an object", m.Path, key)
		}
		var err error
		section.ForEach(func(name, ref gjson.Result) bool {
			if _, internal := versions[name.Str]; !internal {
				return true
			}
			if ref.Type != gjson.String {
				err = fmt.Errorf("%s: reference to %s in %s is not a string", m.Path, name.Str, key)
				return false
			}
			err = fn(key+"."+gjson.Escape(name.Str), name.Str, ref.Str)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// render lays out doc with four space indentation and a trailing newline, keeping the
// order of keys.
func render(doc []byte) []byte {
	return pretty.PrettyOptions(doc, renderOptions)
}

// Write writes each rendered document to the path of the corresponding manifest.
func Write(ctx context.Context, manifests []*Manifest, rendered [][]byte) error {
	if len(manifests) != len(rendered) {
		return fmt.Errorf("got %d rendered documents for %d manifests", len(rendered), len(manifests))
	}
	g, _ := errgroup.WithContext(ctx)
	for i, m := range manifests {
		m, data := m, rendered[i]
		g.Go(func() error {
			log.Infow("Updating", "path", m.Path)
			return os.WriteFile(m.Path, data, 0o644)
		})
	}
	return g.Wait()
}

// BumpVersions checks the manifests below root for consistency and, if they are
// consistent, bumps every internal version with postfix.  No file is written unless every
// manifest was checked and rendered successfully.
func BumpVersions(ctx context.Context, root, postfix string) error {
	manifests, versions, err := CheckTree(ctx, root)
	if err != nil {
		return err
	}
	log.Infow("Adding postfix", "postfix", postfix)
	rendered, err := Bump(manifests, versions, postfix)
	if err != nil {
		return err
	}
	return Write(ctx, manifests, rendered)
}

// CheckTree loads every manifest below root and checks their consistency.
func CheckTree(ctx context.Context, root string) ([]*Manifest, map[string]string, error) {
	paths, err := Discover(root)
	if err != nil {
		return nil, nil, err
	}
	manifests, err := Load(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	versions := Versions(manifests)
	log.Infow("Checking versions consistency", "manifests", len(manifests))
	if err = Check(manifests, versions); err != nil {
		return nil, nil, err
	}
	log.Info("Versions are consistent")
	return manifests, versions, nil
}
