// Package mint parses the transaction export of Mint.
package mint

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/importer"
	"github.com/warped-finance/backend/pkg/importer/parser"
	"github.com/warped-finance/backend/pkg/models"
	"github.com/warped-finance/backend/pkg/normalize"
)

// Column names after normalization
const (
	Date                = "date"
	Description         = "description"
	OriginalDescription = "original_description"
	Amount              = "amount"
	TransactionType     = "transaction_type"
	Category            = "category"
	AccountName         = "account_name"
	Labels              = "labels"
	Notes               = "notes"
)

// Mint exports amounts without sign, this transaction type marks income.
const credit = "credit"

// Parse parses a Mint export. The group of each category is looked up in groups,
// categories without a group are "ungrouped".
//
// Rows are converted as they are, filtering happens when records are unified.
func Parse(f io.Reader, groups importer.CategoryGroups) ([]importer.Record, error) {
	reader, err := parser.NewReader(f)
	if err != nil {
		return nil, err
	}

	records := []importer.Record{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := types.ParseDate(row.Get(Date))
		if err != nil {
			log.Warn().Int("line", reader.Line()).Str("date", row.Get(Date)).Msg("mint: unparseable date")
		}

		amount := normalize.Amount(row.Get(Amount)).Abs()
		if strings.ToLower(strings.TrimSpace(row.Get(TransactionType))) != credit {
			amount = amount.Neg()
		}

		category := normalize.Name(row.Get(Category))

		tags := []string{}
		if label := normalize.Name(row.Get(Labels)); label != "" {
			tags = append(tags, label)
		}

		records = append(records, importer.Record{
			Date:                date,
			Description:         normalize.Name(row.Get(Description)),
			OriginalDescription: strings.TrimSpace(row.Get(OriginalDescription)),
			Amount:              amount,
			Category:            category,
			GroupName:           groups.Group(category),
			AccountName:         strings.TrimSpace(row.Get(AccountName)),
			Notes:               strings.TrimSpace(row.Get(Notes)),
			Tags:                tags,
			Source:              models.SourceMint,
		})
	}

	return records, nil
}

// Categories returns the distinct category names of a Mint export in the order
// they first occur.
func Categories(f io.Reader) ([]string, error) {
	records, err := Parse(f, nil)
	if err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}

	return importer.Categories(records), nil
}
