// Package importer turns bank exports into unified transaction records
// and loads them into the database.
package importer

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warped-finance/backend/internal/types"
)

// Header is the header of the unified CSV file.
var Header = []string{
	"id",
	"parent_id",
	"date",
	"description",
	"original_description",
	"amount",
	"category",
	"groupName",
	"is_split",
	"account_name",
	"notes",
	"tags",
	"source",
	"quantity",
	"link",
	"location",
}

// Record is a transaction in the unified format all sources are converted to.
type Record struct {
	ID                  string
	ParentID            string
	Date                types.Date
	Description         string
	OriginalDescription string
	Amount              decimal.Decimal
	Category            string
	GroupName           string
	IsSplit             bool
	AccountName         string
	Notes               string
	Tags                []string
	Source              string
	Quantity            *int
	Link                string
	Location            string
}

// blank reports whether none of the fields of the record carry information.
func (r Record) blank() bool {
	for _, s := range []string{
		r.ID, r.ParentID, r.Description, r.OriginalDescription, r.Category, r.GroupName,
		r.AccountName, r.Notes, r.Source, r.Link, r.Location, strings.Join(r.Tags, ""),
	} {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}

	return r.Date.IsZero() && r.Amount.IsZero() && r.Quantity == nil && !r.IsSplit
}

// CategoryGroups maps normalized category names to normalized group names.
type CategoryGroups map[string]string

// Group returns the group of the category, "ungrouped" if it has none.
func (c CategoryGroups) Group(category string) string {
	if group, ok := c[category]; ok && group != "" {
		return group
	}
	return UngroupedName
}

// UngroupedName is the group for categories without a known group.
const UngroupedName = "ungrouped"
