// Package config resolves gnustyle settings from flags, environment and an
// optional YAML file.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --output, --theme, --color, --disable, --debug)
//  2. Environment variables (GNUSTYLE_FORMAT, GNUSTYLE_THEME, GNUSTYLE_NO_COLOR, NO_COLOR, GNUSTYLE_DEBUG)
//  3. YAML config file (.gnustyle.yaml in the working directory or ~/.config/gnustyle/.gnustyle.yaml)
//  4. Hardcoded defaults
//
// Check parameters (line_limit, tab_width, marker, width_mode,
// testsuite_marker) are only read from the file.
//
// # Environment Variables
//
//   - GNUSTYLE_FORMAT: output format (stdio, quickfix, sarif)
//   - GNUSTYLE_THEME: theme name (default, orca, mono)
//   - GNUSTYLE_NO_COLOR or NO_COLOR: set to "true" or "1" to disable colors
//   - GNUSTYLE_DEBUG: set to any non-empty value to enable debug logging
package config
