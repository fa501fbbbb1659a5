package style

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cytopush/pkg/errors"
)

// fileDocument is the YAML/TOML form of a style file. Member names match
// the JSON wire format.
type fileDocument struct {
	Title    string        `yaml:"title" toml:"title"`
	Defaults []Default     `yaml:"defaults" toml:"defaults"`
	Mappings []mappingJSON `yaml:"mappings" toml:"mappings"`
}

// Load reads a style from path. The format is chosen by extension:
// .json, .yaml/.yml or .toml. The loaded style is validated.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "style file %s", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Document{}, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return doc, nil
}

// Parse decodes a style in the format named by ext (".json", ".yaml",
// ".yml" or ".toml") and validates it.
func Parse(data []byte, ext string) (Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode JSON style")
		}
	case ".yaml", ".yml":
		var fd fileDocument
		if err := yaml.Unmarshal(data, &fd); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode YAML style")
		}
		d, err := fd.document()
		if err != nil {
			return Document{}, err
		}
		doc = d
	case ".toml":
		var fd fileDocument
		if err := toml.Unmarshal(data, &fd); err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode TOML style")
		}
		d, err := fd.document()
		if err != nil {
			return Document{}, err
		}
		doc = d
	default:
		return Document{}, errors.New(errors.ErrCodeUnsupported, "unsupported style format %q (want .json, .yaml, .yml or .toml)", ext)
	}

	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (fd fileDocument) document() (Document, error) {
	doc := Document{Title: fd.Title, Defaults: fd.Defaults}
	for i, mj := range fd.Mappings {
		m, err := mj.mapping()
		if err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "mapping %d", i)
		}
		doc.Mappings = append(doc.Mappings, m)
	}
	return doc, nil
}
