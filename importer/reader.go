package importer

import "fmt"

// Reader loads the data rows of a file after checking them against schema.
type Reader interface {
	Read(path string, schema Schema) ([]Record, error)
}

func ReaderForFormat(format, encoding string) (Reader, error) {
	switch normalizeFormat(format) {
	case FormatCSV:
		return &CSVReader{Encoding: encoding}, nil
	case FormatExcel:
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}
