package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SalesHeader is the column layout of the book sales export
var SalesHeader = []string{
	"index", "Publishing Year", "Book Name", "Author", "language_code",
	"Book_average_rating", "Book_ratings_count", "genre",
	"gross sales", "publisher revenue", "sale price", "sales rank",
	"Publisher ", "units sold",
}

// SalesRows holds twelve complete rows from two publishers followed by two
// rows that cleaning drops.
var SalesRows = [][]string{
	{"0", "2004", "Beowulf", "Unknown", "en-US", "4.5", "2050", "genre fiction", "34160", "20496", "4.88", "1", "HarperCollins", "7000"},
	{"1", "2012", "Batman: Year One", "Frank Miller", "eng", "3.9", "1000", "genre fiction", "12437.5", "7462.5", "1.99", "2", "Amazon Digital Services,  Inc.", "6250"},
	{"2", "1998", "Go Set a Watchman", "Harper Lee", "eng", "4.1", "2400", "genre fiction", "47795", "28677", "8.69", "3", "HarperCollins", "5500"},
	{"3", "2010", "When You Are Engulfed in Flames", "David Sedaris", "en-US", "3.2", "1800", "fiction", "41250", "24750", "7.5", "4", "Amazon Digital Services,  Inc.", "5800"},
	{"4", "2001", "Daughter of Smoke & Bone", "Laini Taylor", "eng", "4.7", "1200", "genre fiction", "37952.5", "22771.5", "7.99", "5", "HarperCollins", "4750"},
	{"5", "2015", "Red Queen", "Victoria Aveyard", "eng", "3.6", "900", "genre fiction", "19960", "11976", "4.99", "6", "Amazon Digital Services,  Inc.", "4000"},
	{"6", "1995", "The Power of Habit", "Charles Duhigg", "eng", "4.0", "3100", "nonfiction", "27491.2", "16494.72", "8.32", "7", "HarperCollins", "3304"},
	{"7", "2008", "Midnight in Chernobyl", "Adam Higginbotham", "eng", "4.4", "700", "nonfiction", "9900", "5940", "3.3", "8", "Amazon Digital Services,  Inc.", "3000"},
	{"8", "2003", "Shatter Me", "Tahereh Mafi", "eng", "3.8", "1500", "genre fiction", "15180", "9108", "5.5", "9", "HarperCollins", "2760"},
	{"9", "2011", "The Secret History", "Donna Tartt", "eng", "4.2", "2200", "fiction", "21890", "13134", "9.95", "10", "Amazon Digital Services,  Inc.", "2200"},
	{"10", "1999", "Hyperion", "Dan Simmons", "en-US", "3.5", "600", "genre fiction", "6120", "3672", "3.4", "11", "HarperCollins", "1800"},
	{"11", "2014", "The Snow Child", "Eowyn Ivey", "eng", "4.6", "1300", "fiction", "14250", "8550", "9.5", "12", "Amazon Digital Services,  Inc.", "1500"},
	{"12", "2006", "Untitled", "Anonymous", "eng", "4.0", "10", "fiction", "100", "60", "1.0", "13", "", "10"},
	{"13", "", "Missing Year", "Anonymous", "eng", "4.0", "10", "fiction", "100", "60", "1.0", "14", "Penguin", "10"},
}

// SalesCSV renders SalesHeader and SalesRows as CSV
func SalesCSV() string {
	var b strings.Builder
	b.WriteString(csvLine(SalesHeader))
	for _, row := range SalesRows {
		b.WriteString(csvLine(row))
	}
	return b.String()
}

// SalesXLSX renders SalesHeader and SalesRows as an XLSX workbook
func SalesXLSX(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := append([][]string{SalesHeader}, SalesRows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		if strings.ContainsAny(c, ",\"") {
			c = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		quoted[i] = c
	}
	return strings.Join(quoted, ",") + "\n"
}
