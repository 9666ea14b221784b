package mocap

import "strings"

// splitFields tokenizes one line of Motive CSV output into its fields.
//
// The exporter only quotes the asset ID cells and never embeds commas inside a
// quoted field, so all quote characters are stripped up front and the line is
// then split strictly on commas. A line that is empty after trimming the line
// terminator yields an empty field sequence; the blank second header line
// relies on this.
func splitFields(line string) []string {
	line = strings.TrimRight(line, " \t\r\n")
	if line == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(line, `"`, ""), ",")
}

// at returns the field at index i, or an empty string when the line is shorter
// than the column layout declared by the header.
func at(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
