package main

import (
	_ "embed" // Support for go:embed resources
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

//go:embed resources/defaultConfig.ini
var defaultConfig []byte

type KeysProperties struct {
	BT_A     string `ini:"BT_A"`
	BT_B     string `ini:"BT_B"`
	BT_C     string `ini:"BT_C"`
	BT_D     string `ini:"BT_D"`
	FX_L     string `ini:"FX_L"`
	FX_R     string `ini:"FX_R"`
	KN_L_CW  string `ini:"KN_L_CW"`
	KN_L_CCW string `ini:"KN_L_CCW"`
	KN_R_CW  string `ini:"KN_R_CW"`
	KN_R_CCW string `ini:"KN_R_CCW"`
	Start    string `ini:"Start"`
	Back     string `ini:"Back"`
}

type Config struct {
	Def     string    `ini:"-"`
	IniFile *ini.File `ini:"-"`
	Config  struct {
		WindowTitle     string `ini:"WindowTitle"`
		EntryMode       string `ini:"EntryMode"`
		Chart           string `ini:"Chart"`
		LaneTexture     string `ini:"LaneTexture"`
		CalibrationFile string `ini:"CalibrationFile"`
		StatsFile       string `ini:"StatsFile"`
	} `ini:"Config"`
	Video struct {
		Width      int32 `ini:"Width"`
		Height     int32 `ini:"Height"`
		Fullscreen bool  `ini:"Fullscreen"`
		VSync      int   `ini:"VSync"`
		Framerate  int   `ini:"Framerate"`
	} `ini:"Video"`
	Pool struct {
		Workers     int `ini:"Workers"`
		MaxBlocking int `ini:"MaxBlocking"`
	} `ini:"Pool"`
	Keys  KeysProperties `ini:"Keys"`
	Debug struct {
		AllowDebugKeys bool `ini:"AllowDebugKeys"`
		Logging        bool `ini:"Logging"`
	} `ini:"Debug"`
}

func iniLoadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		Insensitive:             false,
		IgnoreInlineComment:     false,
		SkipUnrecognizableLines: true,
		AllowShadows:            false,
	}
}

// loadConfig layers def (if it exists) over the embedded defaults.
func loadConfig(def string) (*Config, error) {
	var iniFile *ini.File
	var err error
	if _, statErr := os.Stat(def); def == "" || statErr != nil {
		iniFile, err = ini.LoadSources(iniLoadOptions(), defaultConfig)
	} else {
		iniFile, err = ini.LoadSources(iniLoadOptions(), defaultConfig, def)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	c := &Config{Def: def, IniFile: iniFile}
	if err := iniFile.MapTo(c); err != nil {
		return nil, fmt.Errorf("failed to map config: %w", err)
	}
	c.normalize()
	return c, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize values
func (c *Config) normalize() {
	c.Video.Framerate = clampInt(c.Video.Framerate, 1, 840)
	c.Video.VSync = clampInt(c.Video.VSync, -1, 4)
	if c.Video.Width <= 0 {
		c.Video.Width = 1280
	}
	if c.Video.Height <= 0 {
		c.Video.Height = 720
	}
	if c.Pool.Workers < 0 {
		c.Pool.Workers = 0
	}
	if c.Pool.MaxBlocking < 1 {
		c.Pool.MaxBlocking = 64
	}
	if _, err := ParseEntryMode(c.Config.EntryMode); err != nil {
		c.Config.EntryMode = "direct"
	}
}

// KeyBindings resolves the [Keys] section. Unknown key names leave the
// default binding in place.
func (c *Config) KeyBindings() *KeyBindings {
	kb := DefaultKeyBindings()
	for role, name := range map[ButtonRole]string{
		BT_A:     c.Keys.BT_A,
		BT_B:     c.Keys.BT_B,
		BT_C:     c.Keys.BT_C,
		BT_D:     c.Keys.BT_D,
		FX_L:     c.Keys.FX_L,
		FX_R:     c.Keys.FX_R,
		KN_L_CW:  c.Keys.KN_L_CW,
		KN_L_CCW: c.Keys.KN_L_CCW,
		KN_R_CW:  c.Keys.KN_R_CW,
		KN_R_CCW: c.Keys.KN_R_CCW,
		BT_Start: c.Keys.Start,
		BT_Back:  c.Keys.Back,
	} {
		if k := StringToKey(name); k != KeyUnknown {
			kb.Set(role, k)
		}
	}
	return kb
}

// Save writes the current values to file.
func (c *Config) Save(file string) error {
	if file == "" {
		return nil
	}
	out := ini.Empty(iniLoadOptions())
	if err := ini.ReflectFrom(out, c); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return out.SaveTo(file)
}
