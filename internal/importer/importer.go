package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"customer-map/internal/domain"
	customersvc "customer-map/internal/service/customer"
	"github.com/go-playground/validator/v10"
)

// Writer is the slice of the customer service the importer needs.
type Writer interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	AddWithGeocoding(ctx context.Context, c domain.Customer) customersvc.AddResult
}

// CSVImporter reads customer CSV exports and loads them into the store.
// Rows that already carry coordinates are stored directly; rows without
// them are geocoded first. Expected header: name,street,number,phone,
// description,lat,lng (the last three optional).
type CSVImporter struct {
	reader   *csv.Reader
	writer   Writer
	logger   *log.Logger
	validate *validator.Validate
}

func NewCSVImporter(r io.Reader, writer Writer, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may omit trailing optional columns
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{
		reader:   csvr,
		writer:   writer,
		logger:   logger,
		validate: validator.New(),
	}
}

type csvRow struct {
	Name        string `validate:"required"`
	Street      string `validate:"required"`
	Number      string `validate:"required"`
	Phone       string `validate:"required"`
	Description string
	Lat         string
	Lng         string
}

// Run parses CSV rows and stores them. Invalid rows and unresolvable
// addresses are skipped with a log line; an unreachable geocoder or a
// store fault aborts the run.
func (i *CSVImporter) Run(ctx context.Context) (imported, skipped int, err error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("read row: %w", err)
		}

		row := csvRow{
			Name:        pick(record, index, "name"),
			Street:      pick(record, index, "street"),
			Number:      pick(record, index, "number"),
			Phone:       pick(record, index, "phone"),
			Description: pick(record, index, "description"),
			Lat:         pick(record, index, "lat"),
			Lng:         pick(record, index, "lng"),
		}
		if err := i.validate.Struct(row); err != nil {
			i.logger.Printf("line %d: skipping invalid row: %v", line, err)
			skipped++
			continue
		}

		if err := i.save(ctx, line, row, &imported, &skipped); err != nil {
			return imported, skipped, err
		}
	}

	return imported, skipped, nil
}

func (i *CSVImporter) save(ctx context.Context, line int, row csvRow, imported, skipped *int) error {
	c := domain.Customer{
		Name:        row.Name,
		Street:      row.Street,
		Number:      row.Number,
		Phone:       row.Phone,
		Description: row.Description,
		Lat:         row.Lat,
		Lng:         row.Lng,
	}

	if c.Lat != "" && c.Lng != "" {
		if _, err := i.writer.Create(ctx, c); err != nil {
			return fmt.Errorf("line %d: create customer %q: %w", line, c.Name, err)
		}
		*imported++
		return nil
	}

	result := i.writer.AddWithGeocoding(ctx, c)
	switch result.Outcome {
	case customersvc.AddCreated:
		*imported++
		return nil
	case customersvc.AddGeocodeFailed:
		if result.GeocodeFailedNoMatch() {
			i.logger.Printf("line %d: skipping %q: address %q not found", line, c.Name, c.Address())
			*skipped++
			return nil
		}
		return fmt.Errorf("line %d: geocode %q: %w", line, c.Address(), result.Err)
	default:
		return fmt.Errorf("line %d: create customer %q: %w", line, c.Name, result.Err)
	}
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
