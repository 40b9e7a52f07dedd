package models

import (
	"errors"
	"fmt"

	"github.com/warped-finance/backend/pkg/normalize"
	"gorm.io/gorm"
)

// UncategorizedName is the name of the default category. Split transactions
// and transactions without a category are assigned to it.
const UncategorizedName = "uncategorized"

// Category is used to classify transactions.
type Category struct {
	DefaultModel
	Name    string `json:"name" gorm:"uniqueIndex;not null" example:"groceries"`
	GroupID uint   `json:"group_id" gorm:"not null;index" example:"2"`
	Group   Group  `json:"-"`
}

func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.Name = normalize.Name(c.Name)
	return nil
}

// CategoryGroup is a group with all of its categories.
type CategoryGroup struct {
	GroupID    uint       `json:"group_id" example:"2"`
	GroupName  string     `json:"group_name" example:"food"`
	Categories []Category `json:"categories"`
}

// InsertOrFetchCategory returns the category with the name, creating it in
// the group if it does not exist yet. An existing category keeps its group.
func InsertOrFetchCategory(tx *gorm.DB, name string, groupID uint) (Category, error) {
	category := Category{Name: normalize.Name(name), GroupID: groupID}
	if category.Name == "" {
		return Category{}, ErrNameEmpty
	}

	_, err := InsertOrFetch(tx, &category, category.Name)
	return category, err
}

// CategoryByName returns the category with the normalized name.
func CategoryByName(db *gorm.DB, name string) (Category, error) {
	var category Category
	err := db.Where("name = ?", normalize.Name(name)).First(&category).Error
	return category, err
}

// defaultCategory returns the category split parents and manual
// transactions without category are assigned to.
func defaultCategory(db *gorm.DB) (Category, error) {
	category, err := CategoryByName(db, UncategorizedName)
	if err != nil {
		return Category{}, fmt.Errorf("the default category could not be loaded: %w", err)
	}
	return category, nil
}

// Categories returns all categories ordered by name.
func Categories(db *gorm.DB) ([]Category, error) {
	var categories []Category
	err := db.Order("name").Find(&categories).Error
	return categories, err
}

// CategoriesByGroup returns the categories partitioned by their group,
// ordered by group ID and category name. Groups without categories are omitted.
func CategoriesByGroup(db *gorm.DB) ([]CategoryGroup, error) {
	var categories []Category
	err := db.Preload("Group").Order("group_id, name").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	result := []CategoryGroup{}
	for _, c := range categories {
		if len(result) == 0 || result[len(result)-1].GroupID != c.GroupID {
			result = append(result, CategoryGroup{GroupID: c.GroupID, GroupName: c.Group.Name})
		}

		last := &result[len(result)-1]
		last.Categories = append(last.Categories, c)
	}

	return result, nil
}

// CreateCategory creates a new category in the "ungrouped" group.
func CreateCategory(db *gorm.DB, name string) (Category, error) {
	category := Category{Name: normalize.Name(name)}
	if category.Name == "" {
		return Category{}, ErrNameEmpty
	}

	var ungrouped Group
	err := db.Where("name = ?", UngroupedName).First(&ungrouped).Error
	if errors.Is(err, ErrResourceNotFound) {
		return Category{}, ErrUngroupedMissing
	} else if err != nil {
		return Category{}, err
	}

	category.GroupID = ungrouped.ID
	err = db.Create(&category).Error
	if errors.Is(err, ErrConflict) {
		return Category{}, fmt.Errorf("%w: %q", ErrCategoryExists, category.Name)
	}

	return category, err
}

// RenameCategory renames a category.
//
// If a category with the new name already exists, the category is merged into it:
// all transactions are moved to the existing category and the renamed category
// is deleted once no transaction references it anymore.
func RenameCategory(db *gorm.DB, currentName, newName string) (category Category, err error) {
	currentName = normalize.Name(currentName)
	newName = normalize.Name(newName)

	if newName == "" {
		return Category{}, ErrNameEmpty
	}

	if currentName == newName {
		return Category{}, ErrCategoryNameUnchanged
	}

	if currentName == UncategorizedName {
		return Category{}, ErrDefaultCategory
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		current, err := CategoryByName(tx, currentName)
		if err != nil {
			return err
		}

		var target Category
		err = tx.Where("name = ?", newName).Limit(1).Find(&target).Error
		if err != nil {
			return err
		}

		// No category with the new name, rename in place
		if target.ID == 0 {
			err = tx.Model(&current).Update("name", newName).Error
			category = current
			category.Name = newName
			return err
		}

		err = tx.Model(&Transaction{}).Where("category_id = ?", current.ID).Update("category_id", target.ID).Error
		if err != nil {
			return err
		}

		var references int64
		err = tx.Model(&Transaction{}).Where("category_id = ?", current.ID).Count(&references).Error
		if err != nil {
			return err
		}

		if references == 0 {
			err = tx.Delete(&current).Error
			if err != nil {
				return err
			}
		}

		category = target
		return nil
	})

	return category, err
}

// RegroupCategory moves a category into another group.
func RegroupCategory(db *gorm.DB, id, groupID uint) (category Category, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&category, id).Error
		if err != nil {
			return err
		}

		var group Group
		err = tx.First(&group, groupID).Error
		if err != nil {
			return err
		}

		category.GroupID = group.ID
		category.Group = group
		return tx.Model(&category).Update("group_id", group.ID).Error
	})

	return category, err
}
