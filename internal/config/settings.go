package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/diagnostics"
	"github.com/DaviTostes/bruno-language-server/internal/errdef"
	"github.com/DaviTostes/bruno-language-server/internal/telemetry"
)

const (
	SettingsFormatTOML SettingsFormat = "toml"
	SettingsFormatJSON SettingsFormat = "json"
	SettingsFormatYAML SettingsFormat = "yaml"
)

const envConfigDir = "BRUNO_LS_CONFIG_DIR"

type Settings struct {
	Diagnostics DiagnosticsSettings `json:"diagnostics" toml:"diagnostics" yaml:"diagnostics"`
	Completion  CompletionSettings  `json:"completion"  toml:"completion"  yaml:"completion"`
	Log         LogSettings         `json:"log"         toml:"log"         yaml:"log"`
	Server      ServerSettings      `json:"server"      toml:"server"      yaml:"server"`
	Telemetry   TelemetrySettings   `json:"telemetry"   toml:"telemetry"   yaml:"telemetry"`
}

type DiagnosticsSettings struct {
	// Disabled lists diagnostic codes that are never reported.
	Disabled    []string `json:"disabled"     toml:"disabled"     yaml:"disabled"`
	ExtraBlocks []string `json:"extra_blocks" toml:"extra_blocks" yaml:"extra_blocks"`
	MetaTypes   []string `json:"meta_types"   toml:"meta_types"   yaml:"meta_types"`
}

type CompletionSettings struct {
	TriggerCharacters []string `json:"trigger_characters" toml:"trigger_characters" yaml:"trigger_characters"`
}

type LogSettings struct {
	File    string `json:"file"    toml:"file"    yaml:"file"`
	Verbose bool   `json:"verbose" toml:"verbose" yaml:"verbose"`
}

type ServerSettings struct {
	// Listen switches from stdio to a websocket listener on this address.
	Listen string `json:"listen" toml:"listen" yaml:"listen"`
}

type TelemetrySettings struct {
	Endpoint    string            `json:"endpoint"     toml:"endpoint"     yaml:"endpoint"`
	Insecure    bool              `json:"insecure"     toml:"insecure"     yaml:"insecure"`
	ServiceName string            `json:"service_name" toml:"service_name" yaml:"service_name"`
	DialTimeout string            `json:"dial_timeout" toml:"dial_timeout" yaml:"dial_timeout"`
	Headers     map[string]string `json:"headers"      toml:"headers"      yaml:"headers"`
}

type SettingsFormat string
type SettingsHandle struct {
	Path   string
	Format SettingsFormat
}

// Dir is $BRUNO_LS_CONFIG_DIR, falling back to <user config dir>/bruno-ls.
func Dir() string {
	if dir := strings.TrimSpace(os.Getenv(envConfigDir)); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil && base != "" {
		return filepath.Join(base, "bruno-ls")
	}
	return ".bruno-ls"
}

// Candidates lists the settings files LoadSettings looks for, in order.
func Candidates() []SettingsHandle {
	dir := Dir()
	return []SettingsHandle{
		{Path: filepath.Join(dir, "settings.toml"), Format: SettingsFormatTOML},
		{Path: filepath.Join(dir, "settings.json"), Format: SettingsFormatJSON},
		{Path: filepath.Join(dir, "settings.yaml"), Format: SettingsFormatYAML},
	}
}

// tries TOML, then JSON, then YAML, then returns defaults if none exists.
// parse errors fail immediately but missing files just skip to the next format.
func LoadSettings() (Settings, SettingsHandle, error) {
	candidates := Candidates()

	var accumulated error
	for _, candidate := range candidates {
		settings, err := loadCandidate(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if errdef.CodeOf(err) == errdef.CodeFilesystem {
			accumulated = errors.Join(accumulated, err)
			continue
		}
		if err != nil {
			return Settings{}, SettingsHandle{}, err
		}
		return settings, candidate, nil
	}

	if accumulated != nil {
		return Settings{}, SettingsHandle{}, accumulated
	}

	return DefaultSettings(), SettingsHandle{
		Path:   candidates[0].Path,
		Format: SettingsFormatTOML,
	}, nil
}

// LoadSettingsFile reads an explicit settings file, picking the format from
// its extension.
func LoadSettingsFile(path string) (Settings, SettingsHandle, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Settings{}, SettingsHandle{}, err
	}
	handle := SettingsHandle{Path: path, Format: format}
	settings, err := loadCandidate(handle)
	if err != nil {
		return Settings{}, SettingsHandle{}, err
	}
	return settings, handle, nil
}

func FormatForPath(path string) (SettingsFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return SettingsFormatTOML, nil
	case ".json":
		return SettingsFormatJSON, nil
	case ".yaml", ".yml":
		return SettingsFormatYAML, nil
	default:
		return "", errdef.New(errdef.CodeConfig, "unsupported settings file %q", path)
	}
}

func loadCandidate(handle SettingsHandle) (Settings, error) {
	data, err := os.ReadFile(handle.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, err
	}
	if err != nil {
		return Settings{}, errdef.Wrap(errdef.CodeFilesystem, err, "read settings %q", handle.Path)
	}

	settings, err := decodeSettings(data, handle.Format)
	if err != nil {
		return Settings{}, errdef.Wrap(errdef.CodeConfig, err, "parse settings %q", handle.Path)
	}
	settings = NormaliseSettings(settings)
	if err := settings.Validate(); err != nil {
		return Settings{}, errdef.Wrap(errdef.CodeConfig, err, "invalid settings %q", handle.Path)
	}
	return settings, nil
}

func decodeSettings(data []byte, format SettingsFormat) (Settings, error) {
	var settings Settings
	switch format {
	case SettingsFormatTOML:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return Settings{}, err
		}
	case SettingsFormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&settings); err != nil {
			return Settings{}, err
		}
	case SettingsFormatYAML:
		if len(bytes.TrimSpace(data)) == 0 {
			return settings, nil
		}
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&settings); err != nil {
			return Settings{}, err
		}
	default:
		return Settings{}, errdef.New(errdef.CodeConfig, "unsupported settings format %q", format)
	}
	return settings, nil
}

func SaveSettings(settings Settings, handle SettingsHandle) error {
	settings = NormaliseSettings(settings)
	path := handle.Path
	format := handle.Format
	if path == "" {
		path = filepath.Join(Dir(), "settings.toml")
	}
	if format == "" {
		format = SettingsFormatTOML
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "ensure settings directory")
	}

	var (
		data []byte
		err  error
	)

	switch format {
	case SettingsFormatTOML:
		data, err = toml.Marshal(settings)
	case SettingsFormatJSON:
		buffer := &bytes.Buffer{}
		encoder := json.NewEncoder(buffer)
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(settings); err == nil {
			data = buffer.Bytes()
		}
	case SettingsFormatYAML:
		data, err = yaml.Marshal(settings)
	default:
		return errdef.New(errdef.CodeConfig, "unsupported settings format %q", format)
	}
	if err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "encode settings")
	}

	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write settings %q", path)
	}
	return nil
}

// write to temp file then rename so the watcher never sees a partial file.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bruno-ls-settings-*.tmp")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func DefaultSettings() Settings {
	return NormaliseSettings(Settings{})
}

// NormaliseSettings trims entries, drops blanks and duplicates, and fills the
// defaults for empty lists.
func NormaliseSettings(s Settings) Settings {
	s.Diagnostics.Disabled = cleanList(s.Diagnostics.Disabled, strings.ToLower)
	s.Diagnostics.ExtraBlocks = cleanList(s.Diagnostics.ExtraBlocks, nil)
	s.Diagnostics.MetaTypes = cleanList(s.Diagnostics.MetaTypes, nil)
	if len(s.Diagnostics.MetaTypes) == 0 {
		s.Diagnostics.MetaTypes = append([]string(nil), brufile.MetaTypes...)
	}
	s.Completion.TriggerCharacters = cleanList(s.Completion.TriggerCharacters, nil)
	if len(s.Completion.TriggerCharacters) == 0 {
		s.Completion.TriggerCharacters = []string{"{", ".", ":"}
	}
	s.Log.File = strings.TrimSpace(s.Log.File)
	s.Server.Listen = strings.TrimSpace(s.Server.Listen)
	s.Telemetry.Endpoint = strings.TrimSpace(s.Telemetry.Endpoint)
	s.Telemetry.ServiceName = strings.TrimSpace(s.Telemetry.ServiceName)
	s.Telemetry.DialTimeout = strings.TrimSpace(s.Telemetry.DialTimeout)
	return s
}

func (s Settings) Validate() error {
	var errs []error
	for _, raw := range s.Diagnostics.Disabled {
		if _, ok := brufile.ParseCode(raw); !ok {
			errs = append(errs, errdef.New(errdef.CodeConfig, "unknown diagnostic code %q", raw))
		}
	}
	if s.Telemetry.DialTimeout != "" {
		if d, err := time.ParseDuration(s.Telemetry.DialTimeout); err != nil || d <= 0 {
			errs = append(errs, errdef.New(errdef.CodeConfig, "invalid telemetry dial_timeout %q", s.Telemetry.DialTimeout))
		}
	}
	return errors.Join(errs...)
}

// DiagnosticOptions converts the [diagnostics] section. Unknown codes were
// rejected by Validate and are skipped here.
func (s Settings) DiagnosticOptions() diagnostics.Options {
	opts := diagnostics.Options{
		ExtraBlocks: append([]string(nil), s.Diagnostics.ExtraBlocks...),
		MetaTypes:   append([]string(nil), s.Diagnostics.MetaTypes...),
	}
	for _, raw := range s.Diagnostics.Disabled {
		if code, ok := brufile.ParseCode(raw); ok {
			opts.Disabled = append(opts.Disabled, code)
		}
	}
	return opts
}

func (s Settings) TelemetryConfig() telemetry.Config {
	cfg := telemetry.Config{
		Endpoint:    s.Telemetry.Endpoint,
		Insecure:    s.Telemetry.Insecure,
		ServiceName: s.Telemetry.ServiceName,
		Headers:     s.Telemetry.Headers,
	}
	if d, err := time.ParseDuration(s.Telemetry.DialTimeout); err == nil && d > 0 {
		cfg.DialTimeout = d
	}
	return cfg
}

func cleanList(in []string, transform func(string) string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if transform != nil {
			v = transform(v)
		}
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
