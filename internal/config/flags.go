package config

import "github.com/spf13/pflag"

var (
	flagConfig       string
	flagDebug        bool
	flagGrid         float32
	flagHistoryDepth int
	flagWidth        int
	flagHeight       int
	flagFlattenUV    bool
)

// RegisterFlags binds the configuration overrides to fs. The CLI passes its
// persistent flag set here before parsing.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagConfig, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.Float32Var(&flagGrid, "grid", 0, "Grid cell size")
	fs.IntVar(&flagHistoryDepth, "history-depth", 0, "Maximum undo entries")
	fs.IntVar(&flagWidth, "width", 0, "Window width")
	fs.IntVar(&flagHeight, "height", 0, "Window height")
	fs.BoolVar(&flagFlattenUV, "auto-flatten-uv", false, "Flatten UVs after gizmo transforms")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagGrid > 0 {
		cfg.Editor.GridSize = flagGrid
	}
	if flagHistoryDepth > 0 {
		cfg.Editor.HistoryDepth = flagHistoryDepth
	}
	if flagWidth > 0 {
		cfg.Viewport.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Viewport.Height = flagHeight
	}
	if flagFlattenUV {
		cfg.Editor.AutoFlattenUV = true
	}
}
