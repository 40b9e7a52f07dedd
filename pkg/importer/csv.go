package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/importer/parser"
	"github.com/warped-finance/backend/pkg/normalize"
)

// WriteCSV writes the records in the unified CSV format.
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		quantity := ""
		if r.Quantity != nil {
			quantity = strconv.Itoa(*r.Quantity)
		}

		date := ""
		if !r.Date.IsZero() {
			date = r.Date.String()
		}

		err := writer.Write([]string{
			r.ID,
			r.ParentID,
			date,
			r.Description,
			r.OriginalDescription,
			r.Amount.String(),
			r.Category,
			r.GroupName,
			strconv.FormatBool(r.IsSplit),
			r.AccountName,
			r.Notes,
			strings.Join(r.Tags, ","),
			r.Source,
			quantity,
			r.Link,
			r.Location,
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV reads records in the unified CSV format.
//
// Only unreadable input is an error. Values that cannot be parsed are left
// empty and the record is checked when it is loaded.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader, err := parser.NewReader(r)
	if err != nil {
		return nil, err
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := types.ParseDate(row.Get("date"))
		if err != nil {
			log.Warn().Int("line", reader.Line()).Str("id", row.Get("id")).Msg("unified csv: unparseable date")
		}

		isSplit, _ := strconv.ParseBool(strings.TrimSpace(row.Get("is_split")))

		tags := []string{}
		if t := row.Get("tags"); t != "" {
			tags = normalize.Names(strings.Split(t, ","))
		}

		records = append(records, Record{
			ID:                  strings.TrimSpace(row.Get("id")),
			ParentID:            strings.TrimSpace(row.Get("parent_id")),
			Date:                date,
			Description:         row.Get("description"),
			OriginalDescription: row.Get("original_description"),
			Amount:              normalize.Amount(row.Get("amount")),
			Category:            normalize.Name(row.Get("category")),
			GroupName:           normalize.Name(row.Get("groupname")),
			IsSplit:             isSplit,
			AccountName:         row.Get("account_name"),
			Notes:               row.Get("notes"),
			Tags:                tags,
			Source:              row.Get("source"),
			Quantity:            normalize.Quantity(row.Get("quantity")),
			Link:                row.Get("link"),
			Location:            row.Get("location"),
		})
	}

	return records, nil
}
