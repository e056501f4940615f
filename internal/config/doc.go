// Package config provides the configuration for textcore.
//
// Configuration is resolved in three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TEXTCORE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← --config textcore.toml / .yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A TOML file looks like:
//
//	[syntax]
//	checkpoint_stride = 64
//	max_scan_distance = 20000
//	work_slice = "100ms"
//	work_pause = "200ms"
//	tab_size = 4
//
//	[theme]
//	name = "Monokai"
//
//	[theme.tags]
//	"comment" = "italic #7f848e"
//	"bracket.open" = "bold yellow"
//
// The YAML form uses the same keys.
package config
