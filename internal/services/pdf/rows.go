package pdf

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/torque/internal/models"
)

// Patterns recognized on job sheet lines. Sheets vary between dealer
// management systems, so each field is matched independently and a line
// only needs a WIP number to count as a job row.
var (
	wipPattern = regexp.MustCompile(`(?i)\bWIP[:#\s]*(\d{3,6})\b`)
	// UK-style plates ("AB12 CDE") plus a generic 4-8 char alphanumeric token
	// following a REG/REGISTRATION label.
	platePattern = regexp.MustCompile(`\b([A-Z]{2}\d{2}\s?[A-Z]{3})\b`)
	regPattern   = regexp.MustCompile(`(?i)\bREG(?:ISTRATION)?[:#\s]*([A-Z0-9]{4,8})\b`)
	awPattern    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*AWs?\b`)
	vhcPattern   = regexp.MustCompile(`(?i)\b(red|orange|green)\b`)
	datePattern  = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}:\d{2})?)\b`)
)

// ParseJobRows scans extracted job sheet text line by line and converts every
// line carrying a WIP number into a loose import row. Fields that cannot be
// recognized stay empty; the normalizer flags them rather than this parser
// dropping the line silently.
func (e *Extractor) ParseJobRows(text string) []models.ImportRow {
	var rows []models.ImportRow

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		wipMatch := wipPattern.FindStringSubmatch(line)
		if wipMatch == nil {
			continue
		}

		row := models.ImportRow{
			WIPNumber: wipMatch[1],
		}

		if m := regPattern.FindStringSubmatch(line); m != nil {
			row.VehicleReg = strings.ToUpper(m[1])
		} else if m := platePattern.FindStringSubmatch(strings.ToUpper(line)); m != nil {
			row.VehicleReg = strings.ReplaceAll(m[1], " ", "")
		}

		if m := awPattern.FindStringSubmatch(line); m != nil {
			if aw, err := strconv.ParseFloat(m[1], 64); err == nil {
				row.AWs = &aw
			}
		}

		if m := vhcPattern.FindStringSubmatch(line); m != nil {
			row.VHCStatus = strings.ToUpper(m[1])
		}

		if m := datePattern.FindStringSubmatch(line); m != nil {
			row.JobDateTime = m[1]
		}

		row.Description = descriptionFrom(line)

		rows = append(rows, row)
	}

	e.logger.Debug().Int("rows", len(rows)).Msg("Parsed job rows from PDF text")
	return rows
}

// descriptionFrom strips the recognized field tokens from a job line and
// returns whatever free text remains.
func descriptionFrom(line string) string {
	cleaned := wipPattern.ReplaceAllString(line, "")
	cleaned = regPattern.ReplaceAllString(cleaned, "")
	cleaned = platePattern.ReplaceAllString(cleaned, "")
	cleaned = awPattern.ReplaceAllString(cleaned, "")
	cleaned = vhcPattern.ReplaceAllString(cleaned, "")
	cleaned = datePattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.Trim(cleaned, " -|,")
}
