package extensions

import (
	"fmt"
	"io"

	"github.com/diwise/asset-catalog/pkg/catalog/assets"
	yaml "gopkg.in/yaml.v2"
)

// TypeInfo declares an extension type. QualifiedNameAttribute, if set, names the
// attribute that holds the qualified name of the parent of an asset of this type.
type TypeInfo struct {
	TypeName               string `yaml:"typeName"`
	SuperType              string `yaml:"superType"`
	QualifiedNameAttribute string `yaml:"qualifiedNameAttribute"`
}

type Config struct {
	Extensions []TypeInfo `yaml:"extensions"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

// Register makes every type in cfg resolvable and returns the names of the registered types.
func Register(cfg *Config) ([]string, error) {
	if cfg == nil {
		return nil, nil
	}

	registered := make([]string, 0, len(cfg.Extensions))

	for i, info := range cfg.Extensions {
		err := assets.RegisterExtensionType(assets.ExtensionType{
			TypeName:        info.TypeName,
			SuperType:       info.SuperType,
			ParentAttribute: info.QualifiedNameAttribute,
		})
		if err != nil {
			return registered, fmt.Errorf("failed to register extension %d (%s): %w", i, info.TypeName, err)
		}

		registered = append(registered, info.TypeName)
	}

	return registered, nil
}
