package mods

import (
	"os"
	"path/filepath"

	"nsbind/common"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// InitPackage creates a new package manifest with the given name in the
// directory at `path`.
func InitPackage(name, path string) error {
	manifestPath := filepath.Join(path, common.ManifestFileName)

	// check to see if a package already exists
	_, err := os.Stat(manifestPath)
	if err == nil {
		return errors.New("manifest already exists")
	}

	if !os.IsNotExist(err) {
		return errors.Wrap(err, "manifest error")
	}

	if !common.IsValidIdentifier(name) {
		return errors.New("package name must be a valid identifier")
	}

	tm := &tomlManifest{
		Package: &tomlPackage{
			Name:            name,
			Entry:           common.DefaultEntryNamespace,
			Version:         "v0.1.0",
			LanguageVersion: common.LanguageVersion,
			Sources:         []string{"*" + common.OutlineFileExtension},
		},
	}

	f, err := os.Create(manifestPath)
	if err != nil {
		return errors.Wrap(err, "error creating manifest")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(tm); err != nil {
		return errors.Wrap(err, "error encoding TOML")
	}

	return nil
}
