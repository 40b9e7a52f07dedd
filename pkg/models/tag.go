package models

import (
	"errors"
	"fmt"

	"github.com/warped-finance/backend/pkg/normalize"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tag is a free form label for transactions.
type Tag struct {
	DefaultModel
	Name string `json:"name" gorm:"uniqueIndex;not null" example:"vacation"`
}

func (t *Tag) BeforeSave(_ *gorm.DB) error {
	t.Name = normalize.Name(t.Name)
	return nil
}

// TransactionTag associates a tag with a transaction.
type TransactionTag struct {
	TransactionID string      `gorm:"primaryKey"`
	Transaction   Transaction `gorm:"constraint:OnDelete:CASCADE"`
	TagID         uint        `gorm:"primaryKey;index"`
	Tag           Tag         `gorm:"constraint:OnDelete:CASCADE"`
}

// TagMode defines how multiple tags are combined in a filter.
type TagMode string

const (
	TagModeOr  TagMode = "or"
	TagModeAnd TagMode = "and"
)

// InsertOrFetchTag returns the tag with the name, creating it if needed.
func InsertOrFetchTag(tx *gorm.DB, name string) (Tag, error) {
	tag := Tag{Name: normalize.Name(name)}
	if tag.Name == "" {
		return Tag{}, ErrNameEmpty
	}

	_, err := InsertOrFetch(tx, &tag, tag.Name)
	return tag, err
}

// Associate tags a transaction. Existing associations are left untouched.
func Associate(tx *gorm.DB, transactionID string, tagIDs ...uint) error {
	if len(tagIDs) == 0 {
		return nil
	}

	associations := make([]TransactionTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		associations = append(associations, TransactionTag{TransactionID: transactionID, TagID: id})
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&associations).Error
}

// Tags returns all tags ordered by name.
func Tags(db *gorm.DB) ([]Tag, error) {
	var tags []Tag
	err := db.Order("name").Find(&tags).Error
	return tags, err
}

// CreateTag creates a new tag. Tag names are unique.
func CreateTag(db *gorm.DB, name string) (Tag, error) {
	tag := Tag{Name: normalize.Name(name)}
	if tag.Name == "" {
		return Tag{}, ErrNameEmpty
	}

	err := db.Create(&tag).Error
	if errors.Is(err, ErrConflict) {
		return Tag{}, fmt.Errorf("%w: %q", ErrTagExists, tag.Name)
	}

	return tag, err
}

// SetTransactionTags replaces the tags of a transaction. Tags that do not
// exist yet are created. It returns the resulting tag names in order.
func SetTransactionTags(db *gorm.DB, id string, names []string) (tags []string, err error) {
	if !ValidTransactionID(id) {
		return nil, ErrInvalidTransactionID
	}

	names = normalize.Names(names)
	slices.Sort(names)
	names = slices.Compact(names)

	err = db.Transaction(func(tx *gorm.DB) error {
		var transaction Transaction
		err := tx.First(&transaction, "id = ?", id).Error
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(names))
		for _, name := range names {
			tag, err := InsertOrFetchTag(tx, name)
			if err != nil {
				return err
			}
			ids = append(ids, tag.ID)
		}

		remove := tx.Where("transaction_id = ?", id)
		if len(ids) > 0 {
			remove = remove.Where("tag_id NOT IN ?", ids)
		}

		err = remove.Delete(&TransactionTag{}).Error
		if err != nil {
			return err
		}

		return Associate(tx, id, ids...)
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}

// tagNames returns the names of the tags for each of the transactions.
func tagNames(db *gorm.DB, ids []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ids))

	// Keep the number of bound parameters well below the sqlite limit
	const chunk = 500
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))

		var rows []struct {
			TransactionID string
			Name          string
		}

		err := db.Model(&TransactionTag{}).
			Select("transaction_tags.transaction_id, tags.name").
			Joins("JOIN tags ON tags.id = transaction_tags.tag_id").
			Where("transaction_tags.transaction_id IN ?", ids[start:end]).
			Order("tags.name").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, r := range rows {
			result[r.TransactionID] = append(result[r.TransactionID], r.Name)
		}
	}

	return result, nil
}

// TransactionsWithTags returns the transactions that have at least one tag.
func TransactionsWithTags(db *gorm.DB, limit int) ([]TransactionDetail, error) {
	q := db.Where("id IN (?)", db.Model(&TransactionTag{}).Select("transaction_id"))
	return findDetails(q, limit)
}

// TransactionsByTags returns transactions tagged with any (TagModeOr) or
// all (TagModeAnd) of the tags.
func TransactionsByTags(db *gorm.DB, names []string, mode TagMode) ([]TransactionDetail, error) {
	if mode == "" {
		mode = TagModeOr
	}

	if mode != TagModeOr && mode != TagModeAnd {
		return nil, ErrTagMode
	}

	names = normalize.Names(names)
	slices.Sort(names)
	names = slices.Compact(names)
	if len(names) == 0 {
		return []TransactionDetail{}, nil
	}

	tagged := db.Model(&TransactionTag{}).
		Select("transaction_tags.transaction_id").
		Joins("JOIN tags ON tags.id = transaction_tags.tag_id").
		Where("tags.name IN ?", names)

	if mode == TagModeAnd {
		tagged = tagged.Group("transaction_tags.transaction_id").Having("COUNT(DISTINCT transaction_tags.tag_id) = ?", len(names))
	}

	return findDetails(db.Where("id IN (?)", tagged), 0)
}
