package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# fxjournal configuration

[journal]
# Path to the SQLite journal database.
# database_path = "~/.config/fxjournal/journal.db"

# Display currency symbol used when rendering money amounts.
currency = "$"

[import]
# Workbook sheets carry this many header rows before trade data.
header_rows = 2

# Leading row-label columns to skip on each sheet row.
label_columns = 1

# Sheet name used when --sheet is not given. Empty means the first sheet.
default_sheet = ""

[logging]
level = "info"
console = true
file = true
max_size = 50
max_backups = 5
max_age = 30
`

// createTemplateConfig writes a commented config template on first run so
// users have something to edit.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
