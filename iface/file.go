package iface

import (
	"bytes"
	"io"
	"os"

	"nsbind/depm"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Encode writes an interface as YAML.
func Encode(w io.Writer, iface *depm.Interface) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(iface); err != nil {
		return errors.Wrapf(err, "encoding interface of package `%s`", iface.Package)
	}

	return enc.Close()
}

// Decode reads an interface from YAML.
func Decode(r io.Reader) (*depm.Interface, error) {
	iface := &depm.Interface{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(iface); err != nil {
		return nil, errors.Wrap(err, "decoding interface")
	}

	if iface.Package == "" {
		return nil, errors.New("interface is missing a package name")
	}

	return iface, nil
}

// WriteFile writes an interface file.
func WriteFile(path string, iface *depm.Interface) error {
	buff := &bytes.Buffer{}
	if err := Encode(buff, iface); err != nil {
		return err
	}

	return errors.Wrapf(os.WriteFile(path, buff.Bytes(), 0644), "writing interface file %s", path)
}

// LoadFile reads an interface file.
func LoadFile(path string) (*depm.Interface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening interface file %s", path)
	}
	defer f.Close()

	iface, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}

	return iface, nil
}
