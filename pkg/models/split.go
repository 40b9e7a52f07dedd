package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Split is one part of a split transaction.
type Split struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"-20.00"`
	Category    string          `json:"category" example:"groceries"`   // Defaults to the category of the split transaction
	Description string          `json:"description" example:"snacks"`   // Defaults to the description of the split transaction
	Notes       string          `json:"notes" example:"for the party"` // Defaults to the notes of the split transaction
}

// SplitTransaction splits a transaction into parts whose amounts sum up
// exactly to the amount of the transaction.
//
// The parts get the IDs "<id>-1" to "<id>-n" in the order of the splits and
// inherit everything from the split transaction that the split does not set.
// The split transaction itself is moved to the default category.
//
// Either the whole split is stored or nothing is.
func SplitTransaction(db *gorm.DB, id string, splits []Split) (children []Transaction, err error) {
	if !ValidTransactionID(id) {
		return nil, ErrInvalidTransactionID
	}

	if len(splits) == 0 {
		return nil, ErrNoSplits
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var parent Transaction
		err := tx.First(&parent, "id = ?", id).Error
		if err != nil {
			return err
		}

		if parent.ParentID != nil {
			return ErrChildTransaction
		}

		if parent.IsSplit {
			return ErrAlreadySplit
		}

		sum := decimal.Zero
		for _, s := range splits {
			sum = sum.Add(s.Amount)
		}

		if !sum.Equal(parent.Amount) {
			return AmountMismatchError{Expected: parent.Amount, Actual: sum}
		}

		children = make([]Transaction, 0, len(splits))
		for i, s := range splits {
			child := Transaction{
				ID:                  ChildTransactionID(parent.ID, i+1),
				ParentID:            &parent.ID,
				Date:                parent.Date,
				Description:         parent.Description,
				OriginalDescription: parent.OriginalDescription,
				Amount:              s.Amount,
				CategoryID:          parent.CategoryID,
				AccountName:         parent.AccountName,
				Notes:               parent.Notes,
				Source:              parent.Source,
				Quantity:            1,
			}

			if s.Category != "" {
				category, err := resolveCategory(tx, s.Category)
				if err != nil {
					return err
				}
				child.CategoryID = category.ID
			}

			if s.Description != "" {
				child.Description = s.Description
			}

			if s.Notes != "" {
				child.Notes = s.Notes
			}

			children = append(children, child)
		}

		uncategorized, err := defaultCategory(tx)
		if err != nil {
			return err
		}

		// Only one of two concurrent splits of the same transaction can flip the flag
		result := tx.Model(&Transaction{}).
			Where("id = ? AND is_split = ?", parent.ID, false).
			Updates(map[string]any{"is_split": true, "category_id": uncategorized.ID})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrAlreadySplit
		}

		return tx.Omit(clause.Associations).Create(&children).Error
	})
	if err != nil {
		return nil, err
	}

	return children, nil
}

// DeleteSplitTransactions removes all parts of a split transaction and marks
// it as not split. It returns the number of parts that were deleted.
//
// The category of the transaction is not restored.
func DeleteSplitTransactions(db *gorm.DB, id string) (deleted int64, err error) {
	if !ValidTransactionID(id) {
		return 0, ErrInvalidTransactionID
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var parent Transaction
		err := tx.First(&parent, "id = ?", id).Error
		if err != nil {
			return err
		}

		if !parent.IsSplit {
			return ErrNotSplit
		}

		deleted, err = deleteChildren(tx, id)
		if err != nil {
			return err
		}

		return tx.Model(&parent).Update("is_split", false).Error
	})

	return deleted, err
}
