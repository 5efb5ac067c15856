package layout

import "strconv"

// RowLabel maps a row index to letters: 0 is "A", 25 is "Z", 26 is "AA".
func RowLabel(row int) string {
	var letters []byte
	for n := row + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}

// Label names a page by its row letter and 1-based column, for example "B3".
func Label(row, col int) string {
	return RowLabel(row) + strconv.Itoa(col+1)
}
