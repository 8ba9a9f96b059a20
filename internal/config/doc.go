// Package config provides configuration management for chartbridge.
//
// Configuration is loaded from YAML files and merged in order, with later
// sources overriding earlier ones:
//
//  1. Default configuration (GetDefaultConfig)
//  2. User configuration (~/.config/chartbridge/config.yaml)
//  3. Project configuration (./.chartbridge/config.yaml)
//
// Example:
//
//	channel:
//	  transport: sse      # or "stdio" for headless mode
//	  host: localhost
//	  port: 8765
//	image:
//	  defaultWidth: 800
//	  defaultHeight: 600
//	  cellWidth: 8
//	  cellHeight: 16
//	ui:
//	  altScreen: true
//	  showAxis: true
//	  debug: false
//	logging:
//	  level: info
//
// The chart widget's own configuration (editing enabled, logo hidden, the
// image-export and cloud-save actions removed) is fixed in code and cannot be
// changed from these files.
package config
