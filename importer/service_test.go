package importer

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"hrsync/worklog"
)

const validCSV = "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n" +
	"123;7;15.03.2024;09:00;12:00\n" +
	"124;8;15.03.2024;13:00;17:30\n"

func TestParseCSV_IDMode(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "times.csv", validCSV)
	entries, err := Parse(path, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []worklog.RawEntry{
		{RowNumber: 2, PersonNumber: "123", ProjectNumber: "7", Date: "15.03.2024", StartTime: "09:00", EndTime: "12:00"},
		{RowNumber: 3, PersonNumber: "124", ProjectNumber: "8", Date: "15.03.2024", StartTime: "13:00", EndTime: "17:30"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("unexpected entries:\nwant %+v\ngot  %+v", want, entries)
	}
}

func TestParseCSV_NameModeStoresProjectName(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "times.csv", "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n123;Website Relaunch;15.03.2024;09:00;12:00\n")
	entries, err := Parse(path, ParseOptions{Mode: ModeName})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 1 || entries[0].ProjectName != "Website Relaunch" || entries[0].ProjectNumber != "" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseCSV_IsIdempotent(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "times.csv", validCSV)
	first, err := Parse(path, ParseOptions{})
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := Parse(path, ParseOptions{})
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parse results differ: %+v vs %+v", first, second)
	}
}

func TestParseCSV_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "comma delimited",
			content: "Personalnummer,Projektname,Datum,Startzeit,Endzeit\n123,7,15.03.2024,09:00,12:00\n",
			check: func(t *testing.T, err error) {
				var target *worklog.FormatError
				if !errors.As(err, &target) {
					t.Fatalf("expected FormatError, got %v", err)
				}
			},
		},
		{
			name:    "wrong headers",
			content: "Personalnummer;Projekt;Datum;Start;Ende\n123;7;15.03.2024;09:00;12:00\n",
			check: func(t *testing.T, err error) {
				var target *worklog.SchemaError
				if !errors.As(err, &target) {
					t.Fatalf("expected SchemaError, got %v", err)
				}
				if !reflect.DeepEqual(target.Actual, []string{"Personalnummer", "Projekt", "Datum", "Start", "Ende"}) {
					t.Fatalf("unexpected actual headers: %v", target.Actual)
				}
			},
		},
		{
			name:    "headers out of order",
			content: "Projektname;Personalnummer;Datum;Startzeit;Endzeit\n7;123;15.03.2024;09:00;12:00\n",
			check: func(t *testing.T, err error) {
				var target *worklog.SchemaError
				if !errors.As(err, &target) {
					t.Fatalf("expected SchemaError, got %v", err)
				}
			},
		},
		{
			name:    "short row",
			content: "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n123;7;15.03.2024;09:00;12:00\n124;7;15.03.2024\n",
			check: func(t *testing.T, err error) {
				var target *worklog.RowShapeError
				if !errors.As(err, &target) {
					t.Fatalf("expected RowShapeError, got %v", err)
				}
				if target.Row != 3 || len(target.Values) != 3 {
					t.Fatalf("unexpected row shape error: %+v", target)
				}
			},
		},
		{
			name:    "bare quote in first column",
			content: "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n1\"23;100;15.03.2024;09:00;12:00\n",
			check: func(t *testing.T, err error) {
				var target *worklog.FormatError
				if !errors.As(err, &target) {
					t.Fatalf("expected FormatError, got %v", err)
				}
				if target.Line != 2 {
					t.Fatalf("expected line 2, got %d", target.Line)
				}
			},
		},
		{
			name:    "unterminated quote",
			content: "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n123;7;15.03.2024;09:00;12:00\n\"124;7;15.03.2024;09:00;12:00\n",
			check: func(t *testing.T, err error) {
				var target *worklog.FormatError
				if !errors.As(err, &target) {
					t.Fatalf("expected FormatError, got %v", err)
				}
			},
		},
		{
			name:    "blank line between rows",
			content: "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n123;7;15.03.2024;09:00;12:00\n\n124;8;15.03.2024;13:00;17:30\n",
			check: func(t *testing.T, err error) {
				var target *worklog.RowShapeError
				if !errors.As(err, &target) {
					t.Fatalf("expected RowShapeError, got %v", err)
				}
				if target.Row != 3 || len(target.Values) != 0 {
					t.Fatalf("unexpected row shape error: %+v", target)
				}
			},
		},
		{
			name:    "blank line after header",
			content: "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n\n123;7;15.03.2024;09:00;12:00\n",
			check: func(t *testing.T, err error) {
				var target *worklog.RowShapeError
				if !errors.As(err, &target) {
					t.Fatalf("expected RowShapeError, got %v", err)
				}
				if target.Row != 2 {
					t.Fatalf("expected row 2, got %d", target.Row)
				}
			},
		},
		{
			name:    "header only",
			content: "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n",
			check: func(t *testing.T, err error) {
				var target *worklog.EmptyBatchError
				if !errors.As(err, &target) {
					t.Fatalf("expected EmptyBatchError, got %v", err)
				}
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, "times.csv", tc.content)
			_, err := Parse(path, ParseOptions{})
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			var pipelineErr worklog.PipelineError
			if !errors.As(err, &pipelineErr) {
				t.Fatalf("expected pipeline error, got %T", err)
			}
			tc.check(t, err)
		})
	}
}

func TestParseCSV_StripsUTF8BOM(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "times.csv", "\ufeff"+validCSV)
	entries, err := Parse(path, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 || entries[0].PersonNumber != "123" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseCSV_UTF16WithBOM(t *testing.T) {
	t.Parallel()

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(validCSV)
	if err != nil {
		t.Fatalf("encode utf-16: %v", err)
	}
	path := writeFile(t, "times.csv", encoded)

	entries, err := Parse(path, ParseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 || entries[1].EndTime != "17:30" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseCSV_Windows1252(t *testing.T) {
	t.Parallel()

	content := "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n123;Büroumbau;15.03.2024;09:00;12:00\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("encode windows-1252: %v", err)
	}
	path := writeFile(t, "times.csv", encoded)

	entries, err := Parse(path, ParseOptions{Mode: ModeName, Encoding: EncodingWindows1252})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if entries[0].ProjectName != "Büroumbau" {
		t.Fatalf("unexpected project name %q", entries[0].ProjectName)
	}
}

func TestParse_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "times.txt", validCSV)
	if _, err := Parse(path, ParseOptions{}); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
	if _, err := Parse(path, ParseOptions{Format: "csv"}); err != nil {
		t.Fatalf("explicit format should override extension: %v", err)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Mode{"": ModeID, "id": ModeID, "Number": ModeID, " name ": ModeName} {
		got, err := ParseMode(input)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseMode("title"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestParseCSV_LineTracking(t *testing.T) {
	t.Parallel()

	content := "Personalnummer;Projektname;Datum;Startzeit;Endzeit\n" +
		"123;\"Website\nRelaunch\";15.03.2024;09:00;12:00\n" +
		"124;Büroumbau;15.03.2024;13:00;17:30\n" +
		"\n\n"
	path := writeFile(t, "times.csv", content)

	entries, err := Parse(path, ParseOptions{Mode: ModeName})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ProjectName != "Website\nRelaunch" {
		t.Fatalf("expected multi-line project name, got %q", entries[0].ProjectName)
	}
	if entries[0].RowNumber != 2 || entries[1].RowNumber != 4 {
		t.Fatalf("unexpected row numbers: %d, %d", entries[0].RowNumber, entries[1].RowNumber)
	}
}
