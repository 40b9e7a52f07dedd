package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/models"
	"github.com/warped-finance/backend/pkg/normalize"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhaseReport counts what happened to the rows of one load phase.
type PhaseReport struct {
	Inserted int `json:"inserted"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

// LoadReport summarizes a load.
type LoadReport struct {
	Groups       PhaseReport `json:"groups"`
	Categories   PhaseReport `json:"categories"`
	Tags         PhaseReport `json:"tags"`
	Transactions PhaseReport `json:"transactions"`
	Associations PhaseReport `json:"associations"`
}

// IDs maps normalized names to database IDs.
type IDs map[string]uint

// Load loads unified records into the database.
//
// Groups, categories, tags, transactions and tag associations are loaded in
// that order, each phase in its own database transaction. A failing phase is
// rolled back and stops the load. Records that reference something that cannot
// be resolved are skipped and logged.
//
// Loading the same records again does not create duplicates.
func Load(ctx context.Context, db *gorm.DB, records []Record) (LoadReport, error) {
	var report LoadReport
	db = db.WithContext(ctx)

	groups, phase, err := LoadGroups(db, records)
	report.Groups = phase
	if err != nil {
		return report, fmt.Errorf("loading groups: %w", err)
	}

	categories, phase, err := LoadCategories(db, records, groups)
	report.Categories = phase
	if err != nil {
		return report, fmt.Errorf("loading categories: %w", err)
	}

	tags, phase, err := LoadTags(db, records)
	report.Tags = phase
	if err != nil {
		return report, fmt.Errorf("loading tags: %w", err)
	}

	loaded, phase, err := LoadTransactions(db, records, categories, groups)
	report.Transactions = phase
	if err != nil {
		return report, fmt.Errorf("loading transactions: %w", err)
	}

	report.Associations, err = LoadTransactionTags(db, records, loaded, tags)
	if err != nil {
		return report, fmt.Errorf("loading tag associations: %w", err)
	}

	return report, nil
}

// count increments the inserted or existing counter.
func (p *PhaseReport) count(inserted bool) {
	if inserted {
		p.Inserted++
	} else {
		p.Existing++
	}
}

// LoadGroups inserts the groups of all records. The returned map always
// contains the "ungrouped" group.
func LoadGroups(db *gorm.DB, records []Record) (IDs, PhaseReport, error) {
	var report PhaseReport

	names := []string{}
	for _, r := range records {
		if name := normalize.Name(r.GroupName); name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	ids := IDs{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			group := models.Group{Name: name}
			inserted, err := models.InsertOrFetch(tx, &group, name)
			if err != nil {
				return fmt.Errorf("group %q: %w", name, err)
			}

			report.count(inserted)
			ids[name] = group.ID
		}

		if _, ok := ids[UngroupedName]; ok {
			return nil
		}

		var ungrouped models.Group
		err := tx.Where("name = ?", UngroupedName).First(&ungrouped).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			return models.ErrUngroupedMissing
		} else if err != nil {
			return err
		}

		ids[UngroupedName] = ungrouped.ID
		return nil
	})
	if err != nil {
		return nil, report, err
	}

	log.Info().Int("inserted", report.Inserted).Int("existing", report.Existing).Msg("load: groups")
	return ids, report, nil
}

// LoadCategories inserts the categories of all records into their groups.
// A category that occurs with several groups goes into the first group that
// is known. Categories that never occur with a known group are skipped.
func LoadCategories(db *gorm.DB, records []Record, groups IDs) (IDs, PhaseReport, error) {
	var report PhaseReport

	type pair struct{ category, group string }
	var pairs []pair
	var names []string

	for _, r := range records {
		p := pair{normalize.Name(r.Category), normalize.Name(r.GroupName)}
		if p.category == "" || slices.Contains(pairs, p) {
			continue
		}

		pairs = append(pairs, p)
		if !slices.Contains(names, p.category) {
			names = append(names, p.category)
		}
	}

	ids := IDs{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, p := range pairs {
			if _, ok := ids[p.category]; ok {
				continue
			}

			groupID, ok := groups[p.group]
			if !ok {
				log.Warn().Str("category", p.category).Str("group", p.group).Msg("load: ignoring category group, group unknown")
				continue
			}

			category := models.Category{Name: p.category, GroupID: groupID}
			inserted, err := models.InsertOrFetch(tx, &category, p.category)
			if err != nil {
				return fmt.Errorf("category %q: %w", p.category, err)
			}

			report.count(inserted)
			ids[p.category] = category.ID
		}

		return nil
	})
	if err != nil {
		return nil, report, err
	}

	for _, name := range names {
		if _, ok := ids[name]; !ok {
			log.Warn().Str("category", name).Msg("load: skipping category, no known group")
			report.Skipped++
		}
	}

	log.Info().Int("inserted", report.Inserted).Int("existing", report.Existing).Int("skipped", report.Skipped).Msg("load: categories")
	return ids, report, nil
}

// LoadTags inserts the tags of all records.
func LoadTags(db *gorm.DB, records []Record) (IDs, PhaseReport, error) {
	var report PhaseReport

	names := []string{}
	for _, r := range records {
		for _, name := range normalize.Names(r.Tags) {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	ids := IDs{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			tag := models.Tag{Name: name}
			inserted, err := models.InsertOrFetch(tx, &tag, name)
			if err != nil {
				return fmt.Errorf("tag %q: %w", name, err)
			}

			report.count(inserted)
			ids[name] = tag.ID
		}

		return nil
	})
	if err != nil {
		return nil, report, err
	}

	log.Info().Int("inserted", report.Inserted).Int("existing", report.Existing).Msg("load: tags")
	return ids, report, nil
}

// transaction converts a record to a transaction.
func transaction(r Record, categoryID uint) (models.Transaction, error) {
	if !models.ValidTransactionID(r.ID) {
		return models.Transaction{}, fmt.Errorf("%w: %q", models.ErrInvalidTransactionID, r.ID)
	}

	if r.Date.IsZero() {
		return models.Transaction{}, models.ErrDateMissing
	}

	t := models.Transaction{
		ID:                  r.ID,
		Date:                r.Date,
		Description:         r.Description,
		OriginalDescription: r.OriginalDescription,
		Amount:              r.Amount,
		CategoryID:          categoryID,
		IsSplit:             r.IsSplit,
		AccountName:         r.AccountName,
		Notes:               r.Notes,
		Source:              r.Source,
		Quantity:            1,
		Link:                r.Link,
		Location:            r.Location,
	}

	if r.ParentID != "" {
		if !models.ValidTransactionID(r.ParentID) {
			return models.Transaction{}, fmt.Errorf("%w: parent %q", models.ErrInvalidTransactionID, r.ParentID)
		}

		parentID := r.ParentID
		t.ParentID = &parentID
	}

	if r.Quantity != nil {
		t.Quantity = *r.Quantity
	}

	return t, nil
}

// LoadTransactions inserts the transactions of the records. Transactions that
// already exist are left unchanged. Records that cannot be resolved or
// inserted are skipped.
//
// It returns the IDs of all transactions that exist after the phase,
// whether they were inserted now or before.
func LoadTransactions(db *gorm.DB, records []Record, categories, groups IDs) (map[string]bool, PhaseReport, error) {
	var report PhaseReport

	// Parts of a split reference their parent, so parents go first
	ordered := slices.Clone(records)
	slices.SortStableFunc(ordered, func(a, b Record) int {
		switch {
		case a.ParentID == "" && b.ParentID != "":
			return -1
		case a.ParentID != "" && b.ParentID == "":
			return 1
		}
		return 0
	})

	loaded := map[string]bool{}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range ordered {
			skip := func(reason string, err error) {
				log.Warn().Str("transaction", r.ID).Str("category", r.Category).Str("group", r.GroupName).Err(err).Msg("load: skipping transaction, " + reason)
				report.Skipped++
			}

			if _, ok := groups[normalize.Name(r.GroupName)]; !ok {
				skip("group unknown", nil)
				continue
			}

			categoryID, ok := categories[normalize.Name(r.Category)]
			if !ok {
				skip("category unknown", nil)
				continue
			}

			t, err := transaction(r, categoryID)
			if err != nil {
				skip("invalid record", err)
				continue
			}

			var inserted bool

			// A savepoint per row keeps a failing row from aborting the phase
			err = tx.Transaction(func(tx *gorm.DB) error {
				result := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoNothing: true,
				}).Omit(clause.Associations).Create(&t)

				inserted = result.RowsAffected == 1
				return result.Error
			})

			if errors.Is(err, models.ErrGeneral) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			} else if err != nil {
				skip("insert failed", err)
				continue
			}

			report.count(inserted)
			loaded[t.ID] = true
		}

		return nil
	})
	if err != nil {
		return nil, report, err
	}

	log.Info().Int("inserted", report.Inserted).Int("existing", report.Existing).Int("skipped", report.Skipped).Msg("load: transactions")
	return loaded, report, nil
}

// LoadTransactionTags associates the loaded transactions with their tags.
// Tags that could not be resolved are skipped.
func LoadTransactionTags(db *gorm.DB, records []Record, loaded map[string]bool, tags IDs) (PhaseReport, error) {
	var report PhaseReport

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, r := range records {
			if !loaded[r.ID] {
				continue
			}

			for _, name := range normalize.Names(r.Tags) {
				tagID, ok := tags[name]
				if !ok {
					log.Warn().Str("transaction", r.ID).Str("tag", name).Msg("load: skipping tag association, tag unknown")
					report.Skipped++
					continue
				}

				result := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&models.TransactionTag{TransactionID: r.ID, TagID: tagID})
				if result.Error != nil {
					return fmt.Errorf("transaction %s, tag %q: %w", r.ID, name, result.Error)
				}

				report.count(result.RowsAffected == 1)
			}
		}

		return nil
	})
	if err != nil {
		return report, err
	}

	log.Info().Int("inserted", report.Inserted).Int("existing", report.Existing).Int("skipped", report.Skipped).Msg("load: tag associations")
	return report, nil
}
