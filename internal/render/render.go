// Package render formats filesystem metadata for terminal output.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/omnifs/omnifs"
)

const timeFormat = "2006-01-02 15:04"

// Size renders a byte count with a binary unit suffix.
func Size(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Mode renders the type and permission column of a long listing.
func Mode(info omnifs.FileInfo) string {
	var class byte
	switch info.Type {
	case omnifs.TypeDirectory:
		class = 'd'
	case omnifs.TypeSymlink:
		class = 'l'
	case omnifs.TypeRegular:
		class = '-'
	default:
		class = '?'
	}

	perms := info.Mode.Perm().String()
	return string(class) + perms[1:]
}

// ListingRow renders one entry of a long listing.
func ListingRow(info omnifs.FileInfo) string {
	modified := "-"
	if !info.ModTime.IsZero() {
		modified = info.ModTime.Format(timeFormat)
	}

	return fmt.Sprintf("%s %10s %16s %s", Mode(info), Size(info.Size), modified, info.Name)
}

// Stat renders the full metadata block for one path.
func Stat(path string, info omnifs.FileInfo) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("    name: %s\n", info.Name))
	builder.WriteString(fmt.Sprintf("    path: %s\n", path))
	builder.WriteString(fmt.Sprintf("    type: %s\n", info.Type))
	builder.WriteString(fmt.Sprintf("    size: %s (%d)\n", Size(info.Size), info.Size))
	builder.WriteString(fmt.Sprintf("    mode: %04o\n", uint32(info.Mode.Perm())))
	if !info.ModTime.IsZero() {
		builder.WriteString(fmt.Sprintf("modified: %s\n", info.ModTime.Format(time.RFC3339)))
	}

	return builder.String()
}
