// Package config holds subfix settings.
//
// Settings are layered: built-in defaults, then a TOML file, then
// environment variables named SUBFIX_<SECTION>_<KEY>:
//
//	[history]
//	limit_undo = true
//	undo_levels = 50
//
//	[line_break]
//	max_length = 44
//	max_lines = 2
//	max_deviation = 0.16
//	length_unit = "width"
//
//	[patterns]
//	common_errors = "~/.config/subfix/common-errors.yaml"
//
//	[logging]
//	level = "info"
//	format = "text"
//
// Pattern files left unset fall back to the tables embedded in the binary.
package config
