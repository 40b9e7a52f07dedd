package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/normalize"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sources transactions can originate from.
const (
	SourceMint        = "Mint"
	SourceEveryDollar = "EveryDollar"
	SourceManual      = "manual"
)

// Transaction is a single booking. Split transactions own their parts
// through the ParentID of the parts.
type Transaction struct {
	ID string `json:"id" gorm:"primaryKey" example:"00042"` // Zero padded sequence number, "<parent>-<n>" for parts of a split
	Timestamps
	ParentID            *string         `json:"parent_id" gorm:"index" example:"00042"`
	Parent              *Transaction    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Date                types.Date      `json:"date" gorm:"index;not null" swaggertype:"primitive,string" example:"2022-09-14"`
	Description         string          `json:"description" example:"whole foods"`
	OriginalDescription string          `json:"original_description" example:"WHOLEFDS #1234"`
	Amount              decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" swaggertype:"string" example:"-42.50"` // Negative for expenses
	CategoryID          uint            `json:"category_id" gorm:"not null;index" example:"1"`
	Category            Category        `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	IsSplit             bool            `json:"is_split" gorm:"not null;default:false" example:"false"`
	AccountName         string          `json:"account_name" example:"checking"`
	Notes               string          `json:"notes" example:"Birthday present"`
	Source              string          `json:"source" example:"Mint"`
	Quantity            int             `json:"quantity" gorm:"not null;default:1" example:"1"`
	Link                string          `json:"link" example:"https://example.com/receipt"`
	Location            string          `json:"location" example:"Springfield"`
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Quantity <= 0 {
		t.Quantity = 1
	}
	return nil
}

// TransactionDetail is a transaction with the names of its category,
// the category's group and its tags.
type TransactionDetail struct {
	Transaction
	Category  string   `json:"category" example:"groceries"`
	GroupName string   `json:"group_name" example:"food"`
	Tags      []string `json:"tags" example:"vacation"`
}

// TransactionFilter restricts the transactions returned by ListTransactions.
// Zero values do not filter.
type TransactionFilter struct {
	Categories []string
	StartDate  types.Date
	EndDate    types.Date
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Limit      int
}

// TransactionInput is a manually entered transaction.
type TransactionInput struct {
	ID                  string          `json:"id" example:"00042"` // Generated when empty
	Date                types.Date      `json:"date" swaggertype:"primitive,string" example:"2022-09-14"`
	Description         string          `json:"description" example:"farmers market"`
	OriginalDescription string          `json:"original_description"`
	Amount              decimal.Decimal `json:"amount" swaggertype:"string" example:"-12.00"`
	Category            string          `json:"category" example:"groceries"`
	AccountName         string          `json:"account_name" example:"cash"`
	Notes               string          `json:"notes"`
	Source              string          `json:"source" example:"manual"`
	Quantity            int             `json:"quantity" example:"1"`
	Link                string          `json:"link"`
	Location            string          `json:"location"`
	Tags                []string        `json:"tags" example:"market"`
}

// TransactionUpdate contains the fields of a transaction that can be changed.
// Nil fields are left unchanged.
type TransactionUpdate struct {
	Date                *types.Date      `json:"date" swaggertype:"primitive,string"`
	Description         *string          `json:"description"`
	OriginalDescription *string          `json:"original_description"`
	Amount              *decimal.Decimal `json:"amount" swaggertype:"string"`
	Category            *string          `json:"category"`
	AccountName         *string          `json:"account_name"`
	Notes               *string          `json:"notes"`
	Quantity            *int             `json:"quantity"`
	Link                *string          `json:"link"`
	Location            *string          `json:"location"`
}

// MaxTransactionNumber is the highest sequence number a transaction ID can hold.
const MaxTransactionNumber = 99999

var transactionID = regexp.MustCompile(`^\d{5}(-\d+)?$`)

// ValidTransactionID reports whether id is a valid transaction ID.
func ValidTransactionID(id string) bool {
	return transactionID.MatchString(id)
}

// FormatTransactionID formats a sequence number as transaction ID.
func FormatTransactionID(n int) string {
	return fmt.Sprintf("%05d", n)
}

// ChildTransactionID returns the ID of the n-th part of a split, starting at 1.
func ChildTransactionID(parentID string, n int) string {
	return fmt.Sprintf("%s-%d", parentID, n)
}

// nextTransactionID returns the ID following the highest ID in use.
func nextTransactionID(tx *gorm.DB) (string, error) {
	var last Transaction
	err := tx.Where("parent_id IS NULL").Order("id DESC").Limit(1).Find(&last).Error
	if err != nil {
		return "", err
	}

	if last.ID == "" {
		return FormatTransactionID(1), nil
	}

	n, err := strconv.Atoi(last.ID)
	if err != nil || n >= MaxTransactionNumber {
		return "", ErrTransactionIDsUsedUp
	}

	return FormatTransactionID(n + 1), nil
}

// findDetails runs the transaction query and loads category, group and tags
// for every result. Results are ordered by date and ID, most recent first.
func findDetails(q *gorm.DB, limit int) ([]TransactionDetail, error) {
	q = q.Preload("Category.Group").Order("date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var transactions []Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(transactions))
	for _, t := range transactions {
		ids = append(ids, t.ID)
	}

	tags, err := tagNames(q.Session(&gorm.Session{NewDB: true}), ids)
	if err != nil {
		return nil, err
	}

	details := make([]TransactionDetail, 0, len(transactions))
	for _, t := range transactions {
		details = append(details, newTransactionDetail(t, tags[t.ID]))
	}

	return details, nil
}

func newTransactionDetail(t Transaction, tags []string) TransactionDetail {
	if tags == nil {
		tags = []string{}
	}

	return TransactionDetail{
		Transaction: t,
		Category:    t.Category.Name,
		GroupName:   t.Category.Group.Name,
		Tags:        tags,
	}
}

// ListTransactions returns all transactions matching the filter.
func ListTransactions(db *gorm.DB, filter TransactionFilter) ([]TransactionDetail, error) {
	q := db.Model(&Transaction{})

	if names := normalize.Names(filter.Categories); len(names) > 0 {
		q = q.Where("category_id IN (?)", db.Model(&Category{}).Select("id").Where("name IN ?", names))
	}

	if !filter.StartDate.IsZero() {
		q = q.Where("date >= date(?)", filter.StartDate.String())
	}

	if !filter.EndDate.IsZero() {
		q = q.Where("date < date(?)", filter.EndDate.AddDays(1).String())
	}

	if filter.MinAmount != nil {
		q = q.Where("amount >= ?", *filter.MinAmount)
	}

	if filter.MaxAmount != nil {
		q = q.Where("amount <= ?", *filter.MaxAmount)
	}

	return findDetails(q, filter.Limit)
}

// RecentTransactions returns the n most recent transactions.
func RecentTransactions(db *gorm.DB, n int) ([]TransactionDetail, error) {
	return findDetails(db.Model(&Transaction{}), n)
}

// TransactionsByCategory returns all transactions of the category.
func TransactionsByCategory(db *gorm.DB, name string) ([]TransactionDetail, error) {
	category, err := CategoryByName(db, name)
	if err != nil {
		return nil, err
	}

	return findDetails(db.Where("category_id = ?", category.ID), 0)
}

// GetTransaction returns a single transaction.
func GetTransaction(db *gorm.DB, id string) (TransactionDetail, error) {
	if !ValidTransactionID(id) {
		return TransactionDetail{}, ErrInvalidTransactionID
	}

	details, err := findDetails(db.Where("id = ?", id), 1)
	if err != nil {
		return TransactionDetail{}, err
	}

	if len(details) == 0 {
		return TransactionDetail{}, fmt.Errorf("%w transaction matching your query", ErrResourceNotFound)
	}

	return details[0], nil
}

// TransactionsByID returns the transactions with the IDs in the order of the IDs.
// IDs that do not exist are ignored.
func TransactionsByID(db *gorm.DB, ids []string) ([]TransactionDetail, error) {
	if len(ids) == 0 {
		return []TransactionDetail{}, nil
	}

	details, err := findDetails(db.Where("id IN ?", ids), 0)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]TransactionDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	result := make([]TransactionDetail, 0, len(details))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			result = append(result, d)
		}
	}

	return result, nil
}

// resolveCategory returns the category with the name or the default category
// if the name is empty.
func resolveCategory(tx *gorm.DB, name string) (Category, error) {
	if normalize.Name(name) == "" {
		return defaultCategory(tx)
	}

	category, err := CategoryByName(tx, name)
	if errors.Is(err, ErrResourceNotFound) {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, normalize.Name(name))
	}
	return category, err
}

// InsertTransaction creates a manually entered transaction.
func InsertTransaction(db *gorm.DB, input TransactionInput) (TransactionDetail, error) {
	if input.ID != "" && !ValidTransactionID(input.ID) {
		return TransactionDetail{}, ErrInvalidTransactionID
	}

	if input.Date.IsZero() {
		return TransactionDetail{}, ErrDateMissing
	}

	transaction := Transaction{
		ID:                  input.ID,
		Date:                input.Date,
		Description:         input.Description,
		OriginalDescription: input.OriginalDescription,
		Amount:              input.Amount,
		AccountName:         input.AccountName,
		Notes:               input.Notes,
		Source:              input.Source,
		Quantity:            input.Quantity,
		Link:                input.Link,
		Location:            input.Location,
	}

	if transaction.Source == "" {
		transaction.Source = SourceManual
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if transaction.ID == "" {
			id, err := nextTransactionID(tx)
			if err != nil {
				return err
			}
			transaction.ID = id
		} else {
			var count int64
			err := tx.Model(&Transaction{}).Where("id = ?", transaction.ID).Count(&count).Error
			if err != nil {
				return err
			}

			if count > 0 {
				return fmt.Errorf("%w: %s", ErrTransactionIDInUse, transaction.ID)
			}
		}

		category, err := resolveCategory(tx, input.Category)
		if err != nil {
			return err
		}
		transaction.CategoryID = category.ID

		err = tx.Omit(clause.Associations).Create(&transaction).Error
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(input.Tags))
		for _, name := range normalize.Names(input.Tags) {
			tag, err := InsertOrFetchTag(tx, name)
			if err != nil {
				return err
			}
			ids = append(ids, tag.ID)
		}

		return Associate(tx, transaction.ID, ids...)
	})
	if err != nil {
		return TransactionDetail{}, err
	}

	return GetTransaction(db, transaction.ID)
}

// UpdateTransaction updates the fields of a transaction that are set in the update.
//
// Amounts of split transactions and their parts are fixed, the split has to
// be removed first.
func UpdateTransaction(db *gorm.DB, id string, update TransactionUpdate) (TransactionDetail, error) {
	if !ValidTransactionID(id) {
		return TransactionDetail{}, ErrInvalidTransactionID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction Transaction
		err := tx.First(&transaction, "id = ?", id).Error
		if err != nil {
			return err
		}

		fields := map[string]any{}

		if update.Amount != nil && !update.Amount.Equal(transaction.Amount) {
			if transaction.IsSplit || transaction.ParentID != nil {
				return ErrAmountLocked
			}
			fields["amount"] = *update.Amount
		}

		if update.Date != nil {
			if update.Date.IsZero() {
				return ErrDateMissing
			}
			fields["date"] = *update.Date
		}

		if update.Category != nil {
			category, err := resolveCategory(tx, *update.Category)
			if err != nil {
				return err
			}
			fields["category_id"] = category.ID
		}

		if update.Quantity != nil {
			fields["quantity"] = max(*update.Quantity, 1)
		}

		for column, value := range map[string]*string{
			"description":          update.Description,
			"original_description": update.OriginalDescription,
			"account_name":         update.AccountName,
			"notes":                update.Notes,
			"link":                 update.Link,
			"location":             update.Location,
		} {
			if value != nil {
				fields[column] = *value
			}
		}

		if len(fields) == 0 {
			return nil
		}

		return tx.Model(&transaction).Updates(fields).Error
	})
	if err != nil {
		return TransactionDetail{}, err
	}

	return GetTransaction(db, id)
}

// UpdateTransactionCategory assigns a transaction to another category.
func UpdateTransactionCategory(db *gorm.DB, id string, categoryID uint) (TransactionDetail, error) {
	if !ValidTransactionID(id) {
		return TransactionDetail{}, ErrInvalidTransactionID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction Transaction
		err := tx.First(&transaction, "id = ?", id).Error
		if err != nil {
			return err
		}

		var category Category
		err = tx.First(&category, categoryID).Error
		if err != nil {
			return err
		}

		return tx.Model(&transaction).Update("category_id", category.ID).Error
	})
	if err != nil {
		return TransactionDetail{}, err
	}

	return GetTransaction(db, id)
}

// DeleteTransaction deletes a transaction together with its split parts
// and tag associations. Parts of a split cannot be deleted on their own.
func DeleteTransaction(db *gorm.DB, id string) error {
	if !ValidTransactionID(id) {
		return ErrInvalidTransactionID
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var transaction Transaction
		err := tx.First(&transaction, "id = ?", id).Error
		if err != nil {
			return err
		}

		if transaction.ParentID != nil {
			return ErrChildTransaction
		}

		_, err = deleteChildren(tx, id)
		if err != nil {
			return err
		}

		err = tx.Where("transaction_id = ?", id).Delete(&TransactionTag{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&transaction).Error
	})
}

// deleteChildren deletes all parts of a split transaction and returns how many there were.
func deleteChildren(tx *gorm.DB, parentID string) (int64, error) {
	children := tx.Model(&Transaction{}).Select("id").Where("parent_id = ?", parentID)

	err := tx.Where("transaction_id IN (?)", children).Delete(&TransactionTag{}).Error
	if err != nil {
		return 0, err
	}

	result := tx.Where("parent_id = ?", parentID).Delete(&Transaction{})
	return result.RowsAffected, result.Error
}
