package export

import (
	"fmt"
	"path/filepath"
	"time"
)

// timestampLayout produces the YYYYMMDD_HHMMSS portion of report
// filenames.
const timestampLayout = "20060102_150405"

// ReportFilename builds the deterministic output path
// <dir>/<prefix>_report_<YYYYMMDD_HHMMSS>.<ext>.
func ReportFilename(dir, prefix, ext string, now time.Time) string {
	name := fmt.Sprintf("%s_report_%s.%s", prefix, now.Format(timestampLayout), ext)
	return filepath.Join(dir, name)
}
