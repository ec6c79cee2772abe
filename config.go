package buslinegeo

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the AMap web service key.
const APIKeyEnv = "AMAP_WS_KEY"

// DefaultConfigPath is tried when no config file is given explicitly.
const DefaultConfigPath = "buslinegeo.yml"

// FetchConfig controls the AMap web service calls.
type FetchConfig struct {
	City      string `yaml:"city"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
	// PauseMS is the rate-limit pause between the search and detail calls.
	PauseMS int `yaml:"pauseMS" validate:"gte=0"`
}

// Timeout returns the HTTP timeout as a duration.
func (f FetchConfig) Timeout() time.Duration { return time.Duration(f.TimeoutMS) * time.Millisecond }

// Pause returns the rate-limit pause as a duration.
func (f FetchConfig) Pause() time.Duration { return time.Duration(f.PauseMS) * time.Millisecond }

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Overwrite   bool   `yaml:"overwrite"`
	Preview     bool   `yaml:"preview"`
	PreviewName string `yaml:"previewName"`
}

// AppConfig is the root configuration structure. The API key is never read
// from the file, only from the environment.
type AppConfig struct {
	Fetch    FetchConfig  `yaml:"fetch"`
	Output   OutputConfig `yaml:"output"`
	Keywords []string     `yaml:"keywords"`
	Key      string       `yaml:"-"`
}

// DefaultKeywords is the Wenzhou route list used when nothing else is given.
var DefaultKeywords = []string{
	"B1路", "B4路", "B6路", "B109路", "24路", "82路", "75路",
	"131路", "28路", "59路", "52路", "103路", "47路",
	"43路", "61路", "21路", "48路", "130路", "22路",
}

func defaultConfig() AppConfig {
	return AppConfig{
		Fetch: FetchConfig{
			City:      "温州",
			TimeoutMS: 20000,
			PauseMS:   200,
		},
		Output: OutputConfig{
			Dir:         "out_wz",
			Preview:     true,
			PreviewName: "preview.html",
		},
	}
}

// LoadAppConfig builds the configuration from defaults, an optional YAML
// file, and the environment. A missing file is only an error when its path
// was given explicitly. A missing API key is always fatal.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	v := validator.New()
	if err := v.Struct(cfg.Fetch); err != nil {
		return AppConfig{}, fmt.Errorf("invalid fetch config: %w", err)
	}

	cfg.Key = os.Getenv(APIKeyEnv)
	if cfg.Key == "" {
		return AppConfig{}, fmt.Errorf("%s is not set; export %s=your_webservice_key", APIKeyEnv, APIKeyEnv)
	}
	return cfg, nil
}
