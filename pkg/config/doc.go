// Package config loads primer.yaml.
//
// Settings are layered: built-in defaults, then the YAML file, then the
// LOG_LEVEL and PRIMER_DATA_DIR environment variables. The result is checked
// twice, once against validator struct tags and once against the CUE
// #Config definition held by the SchemaRegistry.
//
// A minimal file:
//
//	data_dir: .primer
//	logging:
//	  level: debug
//	  format: console
//	challenge:
//	  timeout: 10s
//	lessons:
//	  disabled: [random-avg]
package config
