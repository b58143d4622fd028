// internal/app/system/csvutil/members.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lumenlearn/lumenhub/internal/app/store/queries/groupmembers"
)

// memberHeader is the column layout for group membership exports.
var memberHeader = []string{"full_name", "email", "courses_completed", "view_time_seconds"}

// WriteMembers streams a group's membership as CSV with a header row.
// View time is exported in raw seconds; consumers format as needed.
func WriteMembers(w io.Writer, rows []groupmembers.MemberRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(memberHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.User.FullName,
			row.User.Email,
			strconv.FormatInt(row.CoursesCompleted, 10),
			strconv.FormatInt(row.ViewTimeSeconds, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
