package statement

import (
	"regexp"
	"time"
)

// Statement file names carry the statement date in one of two shapes:
// "2024-01-15 eStmt.pdf" or "20240115-statements-1234-.pdf". Printed
// credit card rows have no year, so the file name supplies it.
var (
	fileDateRe        = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	fileDateCompactRe = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})-statements-`)
)

// StatementDate extracts the statement date from a file name.
func StatementDate(fileName string) (time.Time, bool) {
	m := fileDateRe.FindStringSubmatch(fileName)
	if m == nil {
		m = fileDateCompactRe.FindStringSubmatch(fileName)
	}
	if m == nil {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
