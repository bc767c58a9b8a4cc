// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Editor   EditorConfig   `yaml:"editor" toml:"editor"`
	Viewport ViewportConfig `yaml:"viewport" toml:"viewport"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// EditorConfig holds editing preferences consumed by the session.
type EditorConfig struct {
	HistoryDepth    int     `yaml:"history_depth" toml:"history_depth"`       // Max undo entries
	GridSize        float32 `yaml:"grid_size" toml:"grid_size"`               // Placement and snap cell size
	AutoFlattenUV   bool    `yaml:"auto_flatten_uv" toml:"auto_flatten_uv"`   // Flatten UVs after gizmo commits
	CullBackfaces   bool    `yaml:"cull_backfaces" toml:"cull_backfaces"`     // Ignore back faces when picking
	GizmoHitRadius  float32 `yaml:"gizmo_hit_radius" toml:"gizmo_hit_radius"` // Pixels
	GizmoScreenSize float32 `yaml:"gizmo_screen_size" toml:"gizmo_screen_size"`
	PickRadius      float32 `yaml:"pick_radius" toml:"pick_radius"` // Pixels, direct vertex/edge grab
	ExtrudeDistance float32 `yaml:"extrude_distance" toml:"extrude_distance"`
}

// ViewportConfig holds window and projection settings.
type ViewportConfig struct {
	Width  int     `yaml:"width" toml:"width"`
	Height int     `yaml:"height" toml:"height"`
	FOV    float32 `yaml:"fov" toml:"fov"` // Vertical, degrees
	Near   float32 `yaml:"near" toml:"near"`
	Far    float32 `yaml:"far" toml:"far"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			HistoryDepth:    100,
			GridSize:        1.0,
			AutoFlattenUV:   false,
			CullBackfaces:   true,
			GizmoHitRadius:  12,
			GizmoScreenSize: 90,
			PickRadius:      10,
			ExtrudeDistance: 1.0,
		},
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 720,
			FOV:    60,
			Near:   0.1,
			Far:    500,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate clamps values that would break the editor to safe defaults.
func (c *Config) Validate() {
	def := Default()
	if c.Editor.HistoryDepth <= 0 {
		c.Editor.HistoryDepth = def.Editor.HistoryDepth
	}
	if c.Editor.GridSize <= 0 {
		c.Editor.GridSize = def.Editor.GridSize
	}
	if c.Editor.GizmoHitRadius <= 0 {
		c.Editor.GizmoHitRadius = def.Editor.GizmoHitRadius
	}
	if c.Editor.GizmoScreenSize <= 0 {
		c.Editor.GizmoScreenSize = def.Editor.GizmoScreenSize
	}
	if c.Editor.PickRadius <= 0 {
		c.Editor.PickRadius = def.Editor.PickRadius
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		c.Viewport.Width, c.Viewport.Height = def.Viewport.Width, def.Viewport.Height
	}
	if c.Viewport.FOV <= 0 || c.Viewport.FOV >= 180 {
		c.Viewport.FOV = def.Viewport.FOV
	}
	if c.Viewport.Near <= 0 || c.Viewport.Far <= c.Viewport.Near {
		c.Viewport.Near, c.Viewport.Far = def.Viewport.Near, def.Viewport.Far
	}
}
