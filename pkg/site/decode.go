package site

import (
	"bytes"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format serialization format of a config file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	json             = jsoniter.ConfigCompatibleWithStandardLibrary
	ErrUnknownFormat = errors.New("unknown config format")
)

// FormatFromName guesses the format from a file name or url path
func FormatFromName(name string) (Format, error) {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "file %q", name)
	}
}

// FormatFromContentType maps a http content type, empty when unknown
func FormatFromContentType(contentType string) Format {
	switch {
	case strings.Contains(contentType, "json"):
		return FormatJSON
	case strings.Contains(contentType, "yaml"):
		return FormatYAML
	case strings.Contains(contentType, "toml"):
		return FormatTOML
	default:
		return ""
	}
}

// Decode a config in the given format
func Decode(data []byte, format Format) (*SiteConfig, error) {
	cfg := &SiteConfig{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode json config")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode yaml config")
		}
	case FormatTOML:
		// outline levels may be scalars or arrays, the json decoder knows both
		var raw map[string]interface{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to decode toml config")
		}
		normalized, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrap(err, "failed to normalize toml config")
		}
		if err := json.Unmarshal(normalized, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode toml config")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %q", format)
	}
	return cfg, nil
}

// Encode a config in the given format
func Encode(cfg *SiteConfig, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatYAML:
		return yaml.Marshal(cfg)
	case FormatTOML:
		return toml.Marshal(cfg)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %q", format)
	}
}

// Load reads and decodes a config file, the format follows the extension
func Load(fs afero.Fs, name string) (*SiteConfig, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", name)
	}
	return Decode(data, format)
}
