package changelog

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ChangeSet is a unit of change with a unique id.
type ChangeSet struct {
	ID      string
	Author  string
	Changes []Change
}

// MarshalYAML renders each change under its operation name.
func (c *ChangeSet) MarshalYAML() (any, error) {
	changes := make([]map[string]Change, len(c.Changes))
	for i, ch := range c.Changes {
		changes[i] = map[string]Change{ch.ChangeType(): ch}
	}

	return struct {
		ID      string              `yaml:"id"`
		Author  string              `yaml:"author"`
		Changes []map[string]Change `yaml:"changes"`
	}{c.ID, c.Author, changes}, nil
}

// Write renders sets as a YAML change log document.
//
// Example:
//
//	sets, err := changelog.New(changelog.Options{}).Translate(ctx, result)
//	if err != nil {
//		return err
//	}
//	return changelog.Write(os.Stdout, sets)
func Write(w io.Writer, sets []*ChangeSet) error {
	doc := struct {
		ChangeLog []map[string]*ChangeSet `yaml:"databaseChangeLog"`
	}{ChangeLog: make([]map[string]*ChangeSet, len(sets))}

	for i, cs := range sets {
		doc.ChangeLog[i] = map[string]*ChangeSet{"changeSet": cs}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode change log")
	}

	return errors.Wrap(enc.Close(), "failed to flush change log")
}
