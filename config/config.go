// Package config reads the decoder settings from the mod's ini file.
//
//	[KartDLC]
//	Directory    = resource/gd_PC/SAVEDATA/DLC
//	SaveBase     = 0x8cb00000
//	ArenaBase    = 0x0c000000
//	Codec        = prs
//	MaxDepth     = 1024
//	TextEncoding = shift-jis
//	LogLevel     = warn
//
// Missing keys keep their defaults. ArenaBase is unset by default, which
// rebases models against the real buffer addresses; setting it lays the
// buffers out in a fixed arena instead, for inspecting saves on a 64-bit host.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"gopkg.in/ini.v1"

	c "github.com/sourcekris/kartdlc/common"
	"github.com/sourcekris/kartdlc/dcl"
	"github.com/sourcekris/kartdlc/dlc"
	"github.com/sourcekris/kartdlc/event"
	"github.com/sourcekris/kartdlc/logging"
	"github.com/sourcekris/kartdlc/ninja"
	"github.com/sourcekris/kartdlc/prs"
)

// Section is the ini section holding the decoder settings.
const Section = "KartDLC"

// Config holds the decoder settings.
type Config struct {
	Directory    string
	SaveBase     uint32
	ArenaBase    uint32 // 0 means real buffer addresses
	Codec        c.Codec
	MaxDepth     int
	TextEncoding string
	LogLevel     logging.Level
}

// Default returns the settings used when the ini file is absent.
func Default() Config {
	return Config{
		Directory:    "resource/gd_PC/SAVEDATA/DLC",
		SaveBase:     dlc.DefaultBase,
		Codec:        c.CodecPRS,
		MaxDepth:     ninja.DefaultMaxDepth,
		TextEncoding: "shift-jis",
		LogLevel:     logging.LevelWarn,
	}
}

// Load reads the configuration from the ini file at path. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse reads the configuration from ini data.
func Parse(data []byte) (Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg := Default()
	sec := file.Section(Section)

	if v := sec.Key("Directory").String(); v != "" {
		cfg.Directory = v
	}
	if v := sec.Key("SaveBase").String(); v != "" {
		base, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return Config{}, fmt.Errorf("SaveBase %q: %w", v, err)
		}
		if base == 0 {
			return Config{}, fmt.Errorf("SaveBase %q: must be non-zero", v)
		}
		cfg.SaveBase = uint32(base)
	}
	if v := sec.Key("ArenaBase").String(); v != "" {
		arena, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return Config{}, fmt.Errorf("ArenaBase %q: %w", v, err)
		}
		cfg.ArenaBase = uint32(arena)
	}
	if sec.HasKey("Codec") {
		if cfg.Codec, err = c.ParseCodec(sec.Key("Codec").String()); err != nil {
			return Config{}, err
		}
	}
	if sec.HasKey("MaxDepth") {
		depth, err := sec.Key("MaxDepth").Int()
		if err != nil || depth <= 0 {
			return Config{}, fmt.Errorf("MaxDepth %q: must be a positive integer", sec.Key("MaxDepth").String())
		}
		cfg.MaxDepth = depth
	}
	if v := sec.Key("TextEncoding").String(); v != "" {
		cfg.TextEncoding = strings.ToLower(v)
		if _, err := cfg.Encoding(); err != nil {
			return Config{}, err
		}
	}
	if v := sec.Key("LogLevel").String(); v != "" {
		cfg.LogLevel = logging.ParseLevel(v)
	}
	return cfg, nil
}

// Encoding returns the text encoding of the save texts; nil means raw bytes.
func (cfg Config) Encoding() (encoding.Encoding, error) {
	switch cfg.TextEncoding {
	case "shift-jis", "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "raw", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown text encoding %q", cfg.TextEncoding)
	}
}

// Addresser returns the addresser selected by ArenaBase. Each call starts a
// new arena.
func (cfg Config) Addresser() dlc.Addresser {
	if cfg.ArenaBase == 0 {
		return dlc.HeapAddresser{}
	}
	return &dlc.SequentialAddresser{Next: cfg.ArenaBase}
}

// Decompressor returns the payload codec selected by Codec.
func (cfg Config) Decompressor() (dlc.Decompressor, error) {
	switch cfg.Codec {
	case c.CodecPRS:
		return prs.Decompressor{}, nil
	case c.CodecDCL:
		return dcl.Decompressor{}, nil
	default:
		return nil, fmt.Errorf("no decompressor for codec %s", cfg.Codec)
	}
}

// Logger returns a stderr logger at the configured level.
func (cfg Config) Logger() *logging.Logger {
	return logging.New(os.Stderr, cfg.LogLevel)
}

// NewDecoder builds a decoder from the configuration. A nil log uses Logger.
func (cfg Config) NewDecoder(log *logging.Logger) (*dlc.Decoder, error) {
	unzip, err := cfg.Decompressor()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = cfg.Logger()
	}
	return dlc.NewDecoder(dlc.Options{
		Base:         cfg.SaveBase,
		Decompressor: unzip,
		Addresser:    cfg.Addresser(),
		MaxDepth:     cfg.MaxDepth,
		Logger:       log,
	}), nil
}

// NewLoader builds an event loader from the configuration.
func (cfg Config) NewLoader(log *logging.Logger) (event.Loader, error) {
	if log == nil {
		log = cfg.Logger()
	}
	dec, err := cfg.NewDecoder(log)
	if err != nil {
		return event.Loader{}, err
	}
	enc, err := cfg.Encoding()
	if err != nil {
		return event.Loader{}, err
	}
	return event.Loader{Decoder: dec, Log: log, Encoding: enc}, nil
}
