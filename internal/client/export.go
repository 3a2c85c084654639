package client

import (
	"encoding/csv"
	"io"
	"sort"
)

// WriteCredentialsCSV writes the bulk-create result as a Username,Password
// sheet, sorted by username so reruns produce identical files.
func WriteCredentialsCSV(w io.Writer, credentials map[string]string) error {
	usernames := make([]string, 0, len(credentials))
	for name := range credentials {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Username", "Password"}); err != nil {
		return err
	}
	for _, name := range usernames {
		if err := writer.Write([]string{name, credentials[name]}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
