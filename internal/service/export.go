package service

import (
	"bytes"
	"strings"

	"github.com/15palle/membership/internal/model"
)

// exportDateLayout mirrors the short date format the dashboard always used
const exportDateLayout = "1/2/2006"

var exportHeader = []string{"Name", "Email", "Phone", "Created At", "Verified", "Verified At", "Notes"}

// renderCSV writes one row per customer with every field double-quoted,
// which is the layout downstream spreadsheet imports were built against
func renderCSV(customers []*model.Customer) []byte {
	var buf bytes.Buffer
	writeCSVRow(&buf, exportHeader)

	for _, c := range customers {
		verified := "No"
		if c.Verified {
			verified = "Yes"
		}

		verifiedAt := ""
		if c.VerifiedAt != nil {
			verifiedAt = c.VerifiedAt.Format(exportDateLayout)
		}

		writeCSVRow(&buf, []string{
			c.Name,
			c.Email,
			strValue(c.Phone),
			c.CreatedAt.Format(exportDateLayout),
			verified,
			verifiedAt,
			strValue(c.Notes),
		})
	}

	return buf.Bytes()
}

func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
